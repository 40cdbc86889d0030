package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/techmine/techmine/internal/client"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/config"
	"github.com/techmine/techmine/pkg/version"
)

var timeNow = time.Now

// app carries global flags and the state loaded before every command
type app struct {
	confPath string
	server   string
	query    string
	tmpl     string
	lang     string

	cfg     *config.ClientConfig
	session *client.Session
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           cnst.CtlName,
		Short:         "Command line client of the Techmine API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.confPath, "conf", cnst.CtlYaml, "path to configuration file")
	pf.StringVar(&a.server, "server", "", "apiserver base URL, overrides the config file")
	pf.StringVar(&a.query, "query", "", "gjson path applied to the JSON output")
	pf.StringVar(&a.tmpl, "template", "", "Go template applied to the JSON output, or @attachment, @activity, @table")
	pf.StringVar(&a.lang, "lang", "", "language of server messages (en, fr)")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of techminectl",
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cnst.CtlName, version.Get())
			},
		},
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAttachmentsCmd(a),
		newDashboardCmd(a),
	)
	root.AddCommand(newCollectionCmds(a)...)
	return root
}

// load reads the config file, falling back to defaults when it is absent,
// and the stored session
func (a *app) load() error {
	cfg, path, err := config.LoadConfig[config.ClientConfig](a.confPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.DefaultClientConfig()
	case err != nil:
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	a.cfg = cfg

	s, err := client.LoadSession(client.SessionPath(cfg.SessionFile))
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

// client returns an API client carrying the session token, if any
func (a *app) client() *client.Client {
	opts := []client.Option{client.WithTimeout(a.cfg.Timeout)}
	if tok := a.session.Credential.AccessToken; tok != "" {
		opts = append(opts, client.WithToken(tok))
	}
	if a.lang != "" {
		opts = append(opts, client.WithLanguage(a.lang))
	}
	return client.New(a.cfg.Server, opts...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

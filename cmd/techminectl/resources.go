package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/techmine/techmine/internal/client"
	"github.com/techmine/techmine/internal/common/cnst"
)

// filterFlags maps list flags to query parameters per collection
var filterFlags = map[string][]string{
	cnst.CollectionReports:     {"status", "titleSearch"},
	cnst.CollectionIncidents:   {"status", "severity", "titleSearch"},
	cnst.CollectionWorksites:   {"status", "nameSearch"},
	cnst.CollectionClients:     {"nameSearch"},
	cnst.CollectionAttachments: {"type", "nameSearch"},
}

func flagName(param string) string {
	switch param {
	case "titleSearch":
		return "title"
	case "nameSearch":
		return "name"
	default:
		return param
	}
}

func (a *app) collection(name string) (*client.Collection[json.RawMessage, json.RawMessage], error) {
	if !slices.Contains(cnst.Collections, name) {
		return nil, fmt.Errorf("unknown collection %q, expected one of %s", name, strings.Join(cnst.Collections, ", "))
	}
	if !a.session.Credential.Valid(timeNow()) {
		return nil, errors.New("not signed in or session expired, run login")
	}
	return client.NewCollection[json.RawMessage, json.RawMessage](a.client(), name), nil
}

func collectionArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("collection required: %s", strings.Join(cnst.Collections, ", "))
	}
	return nil
}

func newCollectionCmds(a *app) []*cobra.Command {
	list := &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection, optionally filtered",
		Args:  cobra.MatchAll(collectionArg, cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := a.collection(args[0])
			if err != nil {
				return err
			}
			q := url.Values{}
			for _, p := range filterFlags[args[0]] {
				if v, _ := cmd.Flags().GetString(flagName(p)); v != "" {
					q.Set(p, v)
				}
			}
			items, err := col.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if items == nil {
				items = []json.RawMessage{}
			}
			return a.render(cmd.OutOrStdout(), items)
		},
	}
	list.Flags().String("status", "", "filter by exact status (reports, incidents, worksites)")
	list.Flags().String("severity", "", "filter by exact severity (incidents)")
	list.Flags().String("type", "", "filter by exact type (attachments)")
	list.Flags().String("title", "", "case-insensitive title search (reports, incidents)")
	list.Flags().String("name", "", "case-insensitive name search (worksites, clients, attachments)")

	get := &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one item",
		Args:  cobra.MatchAll(collectionArg, cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := a.collection(args[0])
			if err != nil {
				return err
			}
			item, err := col.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), *item)
		},
	}

	var data, file string
	bodyFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&data, "data", "", "JSON body")
		c.Flags().StringVarP(&file, "file", "f", "", "read the JSON body from a file, - for stdin")
	}

	create := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create an item from a JSON body",
		Args:  cobra.MatchAll(collectionArg, cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := a.collection(args[0])
			if err != nil {
				return err
			}
			body, err := readBody(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}
			item, _, err := col.Create(cmd.Context(), &body)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), *item)
		},
	}
	bodyFlags(create)

	update := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Overwrite every mutable field of an item",
		Args:  cobra.MatchAll(collectionArg, cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := a.collection(args[0])
			if err != nil {
				return err
			}
			body, err := readBody(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}
			if err := col.Update(cmd.Context(), args[1], &body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s updated\n", args[0], args[1])
			return nil
		},
	}
	bodyFlags(update)

	del := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete an item",
		Args:  cobra.MatchAll(collectionArg, cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := a.collection(args[0])
			if err != nil {
				return err
			}
			if err := col.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s deleted\n", args[0], args[1])
			return nil
		},
	}

	return []*cobra.Command{list, get, create, update, del}
}

func readBody(stdin io.Reader, data, file string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, errors.New("use either --data or --file")
	case data != "":
		raw = []byte(data)
	case file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		raw = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, errors.New("a JSON body is required, pass --data or --file")
	}
	if !json.Valid(raw) {
		return nil, errors.New("body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

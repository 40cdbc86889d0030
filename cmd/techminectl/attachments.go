package main

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/internal/objectstore"
)

func newAttachmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments",
		Short: "Work with attachment files",
	}

	var (
		name, typ string
		presign   time.Duration
	)
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to the object store and record its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.Credential.Valid(timeNow()) {
				return errors.New("not signed in or session expired, run login")
			}
			ctx := cmd.Context()
			store, err := objectstore.New(ctx, a.cfg.ObjectStore)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			contentType, err := detectContentType(f)
			if err != nil {
				return err
			}

			// object first, then metadata
			key := objectstore.Key(args[0])
			fileURL, err := store.Put(ctx, key, f, info.Size(), contentType)
			if err != nil {
				return err
			}

			if name == "" {
				name = filepath.Base(args[0])
			}
			item, _, err := a.client().Attachments().Create(ctx, &dto.AttachmentInput{
				Name:     name,
				Type:     typ,
				FileName: filepath.Base(args[0]),
				FileURL:  fileURL,
			})
			if err != nil {
				return fmt.Errorf("record attachment (object %s was uploaded): %w", key, err)
			}

			out := map[string]any{"attachment": item, "key": key}
			if presign > 0 {
				link, err := store.PresignGet(ctx, key, presign)
				if err != nil {
					return err
				}
				out["downloadUrl"] = link
			}
			return a.render(cmd.OutOrStdout(), out)
		},
	}
	upload.Flags().StringVar(&name, "name", "", "display name, defaults to the file name")
	upload.Flags().StringVar(&typ, "type", "", "attachment type (Forage or Minage)")
	upload.Flags().DurationVar(&presign, "presign", 0, "also print a download link valid for this long")
	_ = upload.MarkFlagRequired("type")

	cmd.AddCommand(upload)
	return cmd
}

// detectContentType uses the extension, then sniffs the first bytes
func detectContentType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "application/octet-stream", nil
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/spf13/cobra"
)

func newCreateCmd(open BackendFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "create <url>",
		Short:   "Shorten a URL",
		Example: "  urlgenie-cli create example.com/some/long/path",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			mapping, err := backend.Shorten(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to shorten URL: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", mapping.ID)
			fmt.Fprintf(out, "Original:  %s\n", mapping.OriginalURL)
			fmt.Fprintf(out, "Short URL: %s\n", mapping.ShortURL)
			return nil
		},
	}
}

func newListCmd(open BackendFactory) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent short links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("--limit must be positive")
			}

			backend, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			items, err := backend.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list URLs: %w", err)
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The lamp is quiet")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSHORT URL\tORIGINAL URL\tCREATED")
			for _, m := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.ShortURL, m.OriginalURL, m.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", web.DefaultRecentLimit, "Number of links to show")
	return cmd
}

func newDeleteCmd(open BackendFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a short link by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := backend.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete URL: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newResolveCmd(open BackendFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>",
		Short: "Print the original URL for a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			originalURL, err := backend.Resolve(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("short code %q not found", args[0])
				}
				return fmt.Errorf("failed to resolve code: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), originalURL)
			return nil
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/store"
)

// newRunsCmd creates the runs command for inspecting persisted packing runs.
// Runs live in MongoDB; serve mode writes them there when started with
// --mongo.
func newRunsCmd() *cobra.Command {
	var mongoURI, mongoDB string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted packing runs",
	}
	cmd.PersistentFlags().StringVar(&mongoURI, "mongo", "", "MongoDB URI")
	cmd.PersistentFlags().StringVar(&mongoDB, "mongo-db", appName, "MongoDB database name")

	cmd.AddCommand(newRunsListCmd(&mongoURI, &mongoDB))
	cmd.AddCommand(newRunsShowCmd(&mongoURI, &mongoDB))
	cmd.AddCommand(newRunsDeleteCmd(&mongoURI, &mongoDB))

	return cmd
}

// openRunStore connects to the configured run store.
func openRunStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "runs require --mongo (runs are persisted by serve --mongo)")
	}
	return store.NewMongoStore(ctx, mongoURI, mongoDB)
}

// newRunsListCmd creates the "runs list" subcommand.
func newRunsListCmd(mongoURI, mongoDB *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openRunStore(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			runs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs stored")
				return nil
			}

			fmt.Println(StyleTitle.Render("Runs"))
			for _, run := range runs {
				fmt.Printf("%s  %s  %s  %s\n",
					StyleDim.Render(run.CreatedAt.Format("2006-01-02 15:04:05")),
					StyleValue.Render(run.ID),
					StyleNumber.Render(fmt.Sprintf("%4d circles", len(run.Circles))),
					StyleDim.Render(run.Source))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max runs to list")
	return cmd
}

// newRunsShowCmd creates the "runs show" subcommand.
func newRunsShowCmd(mongoURI, mongoDB *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openRunStore(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			run, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return errors.New(errors.ErrCodeRunNotFound, "run %s not found", args[0])
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}

			printKeyValue("id", run.ID)
			printKeyValue("created", run.CreatedAt.Format("2006-01-02 15:04:05"))
			printKeyValue("source", run.Source)
			printKeyValue("mask", run.MaskHash)
			printKeyValue("size", fmt.Sprintf("%dx%d", run.Width, run.Height))
			printKeyValue("seed", fmt.Sprintf("%d", run.Seed))
			printKeyValue("circles", fmt.Sprintf("%d", len(run.Circles)))
			for _, n := range run.Notices {
				printWarning("%s", n.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")
	return cmd
}

// newRunsDeleteCmd creates the "runs delete" subcommand.
func newRunsDeleteCmd(mongoURI, mongoDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openRunStore(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted run %s", args[0])
			return nil
		},
	}
}

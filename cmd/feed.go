package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/psds-microservice/citypeople-service/internal/application"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"github.com/psds-microservice/citypeople-service/internal/service"
	"github.com/spf13/cobra"
)

var feedJSON bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch the feed and print it grouped by owner",
	RunE:  runFeed,
}

func init() {
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "print groups as JSON")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	core, err := newCore()
	if err != nil {
		return err
	}
	defer core.Close()

	svc := service.NewFeedService(core.Client, core.Cache, nopEvents{}, nil, core.Log)
	res, err := svc.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	if feedJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "OWNER\tNAME\tCLIPS\tLOCATION\n")
	for _, g := range res.Groups {
		loc := ""
		if len(g.Videos) > 0 {
			loc = g.Videos[0].Location
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", g.OwnerID, g.DisplayName, len(g.Videos), loc)
	}
	fmt.Fprintf(w, "(source: %s)\n", res.Source)
	return w.Flush()
}

func newCore() (*application.Core, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := application.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	core, err := application.NewCore(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return core, nil
}

// nopEvents discards events; one-shot commands have no subscribers.
type nopEvents struct{}

func (nopEvents) Publish(model.Event) {}

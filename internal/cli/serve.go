package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Kreger51/mcgill-schedule/internal/api"
	"github.com/Kreger51/mcgill-schedule/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serve the projection and export pipeline over HTTP. POST course lists
to /events and event lists to /calendar; see the package documentation for
the request shapes.`,
	RunE: runServe,
}

var flagAddr string

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Listen
	if flagAddr != "" {
		addr = flagAddr
	}

	srv := api.New(cfg.CourseFormatter())
	logger.Info("Starting API server", logger.Fields{"addr": addr})
	return http.ListenAndServe(addr, srv)
}

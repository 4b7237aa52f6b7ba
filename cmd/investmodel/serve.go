package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/api"
)

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.API.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("host") {
			cfg.API.Host, _ = cmd.Flags().GetString("host")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		api.Version = version
		srv, err := api.NewServer(api.Options{
			Config:     cfg,
			ConfigFile: cfgFile,
			Engine:     eng,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		logger.Info("starting investmodel api", zap.String("addr", addr), zap.String("version", version))
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
	serveCmd.Flags().String("host", "", "listen host override")
}

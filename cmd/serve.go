package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sortd/internal/apihandlers"
)

var (
	serveAddr string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run sortd as an HTTP API server",
	Long: `Starts an HTTP server exposing the engine (preview, commit, undo, query)
via a RESTful API, so editors and other tools can drive it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default() // Includes logger and recovery middleware

		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			planGroup := v1.Group("/plans")
			{
				planGroup.POST("", apiHandler.CreatePlanHandler)
				planGroup.GET("/:id", apiHandler.GetPlanHandler)
				planGroup.PATCH("/:id/entries", apiHandler.EditPlanEntryHandler)
				planGroup.POST("/:id/commit", apiHandler.CommitPlanHandler)
			}

			v1.POST("/undo/:id", apiHandler.UndoHandler)
			v1.GET("/logs", apiHandler.ListLogsHandler)
			v1.GET("/query", apiHandler.QueryHandler)
			v1.GET("/suggest", apiHandler.SuggestHandler)
		}

		// Simple health check endpoint
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		cfg := appInstance.Config
		listenAddr := cfg.ServerAddr()
		if serveAddr != "" || servePort != 0 {
			addr, port := cfg.Server.Address, cfg.Server.Port
			if serveAddr != "" {
				addr = serveAddr
			}
			if servePort != 0 {
				port = servePort
			}
			listenAddr = fmt.Sprintf("%s:%d", addr, port)
		}
		log.Printf("Starting sortd API server on http://%s", listenAddr)

		// router.Run blocks unless an error occurs
		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides server.address)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
}

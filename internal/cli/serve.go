package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/JCVenterInstitute/jillion-go/api"
	"github.com/JCVenterInstitute/jillion-go/api/handlers"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/logutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the alignment API over HTTP",
	Long: `Serve the alignment API over HTTP

Endpoints (JSON in and out):
  POST /api/alignment/{global,local,score,batch}
  GET  /api/matrices, /api/matrices/{name}
  POST /api/sequence/{validate,reverse-complement,gc-content,stats}
  POST /api/kmer/{count,distance}
  POST /api/trim/primers
  GET  /health

Every alignment is limited to --max-cells traceback cells; larger requests
fail with status 413. Matrix files cannot be used, only "identity" and the
embedded matrices. SIGINT or SIGTERM shuts the server down gracefully.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		log = logutil.New("jillion", nil, opt.Verbose)
		if opt.Log2File {
			fhLog := addLog(opt.LogFile, opt.Verbose)
			defer fhLog.Close()
		}

		sc := opt.Config.Server
		if cmd.Flags().Changed("host") {
			sc.Host = getFlagString(cmd, "host")
		}
		if cmd.Flags().Changed("port") {
			sc.Port = getFlagPositiveInt(cmd, "port")
		}
		if cmd.Flags().Changed("max-cells") {
			sc.MaxCells = getFlagInt64(cmd, "max-cells")
		}
		opt.Config.Server = sc
		checkError(opt.Config.Validate())

		h := handlers.New(opt.Config, log)
		srv := newServer(sc, api.NewRouter(h, log))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("jillion API server starting on http://%s", srv.Addr)
		checkError(serve(ctx, srv))
		log.Info("server stopped")
	},
}

func newServer(sc config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serve runs srv until it fails or ctx is done, then shuts it down,
// letting requests in flight finish.
func serve(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "listen on %s", srv.Addr)
	case <-ctx.Done():
	}

	log.Info("server is shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "could not gracefully shut down")
	}
	return nil
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("host", "H", "localhost",
		formatFlagUsage(`Host to bind to.`))
	serveCmd.Flags().IntP("port", "p", 8080,
		formatFlagUsage(`Port to listen on.`))
	serveCmd.Flags().Int64P("max-cells", "", 25_000_000,
		formatFlagUsage(`Maximum traceback cells of one alignment, 0 for no limit.`))

	serveCmd.SetUsageTemplate(usageTemplate(""))
}

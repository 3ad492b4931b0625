package main

//go:generate go run ../uanodegen --package main -o demo_address_space.go ../../services/testdata/Opc.Ua.Demo.NodeSet2.Demo.xml

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amine-amaach/simulators/uanodegen/services"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const demoNamespace = "http://github.com/amine-amaach/simulators/uanodegen/demo"

func main() {
	version := "v1.0.0"
	banner := `
 _   _       _   _           _       ____
| | | | __ _| \ | | ___   __| | ___ / ___| ___ _ __
| | | |/ _' |  \| |/ _ \ / _' |/ _ \ |  _ / _ \ '_ \
| |_| | (_| | |\  | (_) | (_| |  __/ |_| |  __/ | | |
 \___/ \__,_|_| \_|\___/ \__,_|\___|\____|\___|_| |_|  %s
Generated Address Space Over OPCUA
_____________________________________________________________
`
	rootCmd := &cobra.Command{
		Use:          "uaserver",
		Short:        "Serve the generated demo address space over OPC UA",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	flags := rootCmd.Flags()
	flags.String("host", "localhost", "host name the server listens on")
	flags.Int("port", 46010, "port the server listens on")
	flags.Bool("metrics", false, "expose prometheus metrics")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Print Banner
		fmt.Println(utils.Colorize(fmt.Sprintf(banner, version), utils.Cyan))

		level, _ := cmd.Flags().GetString("log-level")
		logger := utils.NewLogger(level)
		defer logger.Sync()

		cfg := utils.NewConfig(logger, cmd.Flags())

		uaSrv, err := services.NewUaSrvService(logger, afero.NewOsFs(), cfg)
		if err != nil {
			return err
		}
		uaSrv.GetServer().NamespaceManager().Add(demoNamespace)

		if err := CreateStandardAddressSpaceDemo(uaSrv.AddressSpace(prometheus.DefaultRegisterer)); err != nil {
			logger.Errorf("Failed to build the address space ❌ %v", err)
			return err
		}
		logger.Info(utils.Colorize("Demo address space loaded ✔️", utils.Green))

		if cfg.EnablePrometheus {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				logger.Infof("Serving metrics on %s/metrics 📈", cfg.MetricsAddr)
				if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
					logger.Errorf("Metrics endpoint stopped ❌ %v", err)
				}
			}()
		}

		go func() {
			if err := uaSrv.ListenAndServe(); err != nil {
				logger.Error(err)
			}
		}()

		// Wait for a signal before exiting
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		signal.Notify(sig, syscall.SIGTERM)
		<-sig
		logger.Warn(utils.Colorize("Signal caught ❌ Stopping server...", utils.Magenta))
		return uaSrv.Close()
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

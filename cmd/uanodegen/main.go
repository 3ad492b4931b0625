package main

import (
	"fmt"
	"os"

	"github.com/amine-amaach/simulators/uanodegen/services"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uanodegen [flags] NODESET_XML",
		Short: "Generate Go code building an OPC UA address space from a NodeSet2 file",
		Args:  cobra.ExactArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.Flags()
	flags.StringP("output", "o", services.StdoutPath, "generated Go file, '-' for stdout")
	flags.String("package", "addressspace", "package name of the generated file")
	flags.String("part", "", "part name of the factory function, defaults to the file name part")
	flags.String("catalog", "", "YAML file with additional structure definitions")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		logger := utils.NewLogger(level)
		defer logger.Sync()

		cfg := utils.NewConfig(logger, cmd.Flags())
		if cfg.LogLevel != level {
			logger = utils.NewLogger(cfg.LogLevel)
		}
		return generate(logger, afero.NewOsFs(), cfg, args[0])
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, utils.Colorize(fmt.Sprintf("uanodegen: %v", err), utils.Red))
		os.Exit(1)
	}
}

func generate(logger *zap.SugaredLogger, fs afero.Fs, cfg *utils.Config, path string) error {
	nodeset := services.NewNodeSetService(logger)
	if err := nodeset.Load(fs, path); err != nil {
		return err
	}

	var extra [][]byte
	if cfg.CatalogFile != "" {
		buf, err := afero.ReadFile(fs, cfg.CatalogFile)
		if err != nil {
			return errors.Wrapf(err, "reading catalog %s", cfg.CatalogFile)
		}
		extra = append(extra, buf)
	}
	catalog, err := services.NewCatalogService(logger, extra...)
	if err != nil {
		return err
	}
	catalog.Extend(nodeset.Structures(), nodeset.Aliases())
	logger.Debugw("Type catalog extended", "structures", len(catalog.Structures()), "enumerations", catalog.Enumerations())

	codeGen := services.NewCodeGenService(logger, catalog,
		services.WithPackageName(cfg.PackageName),
		services.WithPart(cfg.Part),
	)
	res, err := codeGen.Run(nodeset, services.NewFileSink(fs), cfg.Output)
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		logger.Debugw("Skipped node", "node", skipped.NodeID, "type", skipped.NodeType)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"MedalTally/internal/api"
	"MedalTally/internal/config"
	"MedalTally/internal/dataset"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medaltally",
		Short:         "奥运奖牌数据导入与统计",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			if cfg, err = config.Load(cfgFile); err != nil {
				return err
			}
			log = newLogger(&cfg.Log)
			log.Info("配置文件加载成功")
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newImportAllCmd(),
		newFetchCmd(),
		newServeCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新库表结构",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dataset] <file>",
		Short: "导入单个数据文件，省略 dataset 时按文件名识别",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			name, file := "", args[0]
			if len(args) == 2 {
				name, file = args[0], args[1]
			}
			sum, err := a.imports.Import(cmd.Context(), name, file)
			logSummary(log, sum)
			return err
		},
	}
}

func newImportAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-all [dir]",
		Short: "按依赖顺序导入目录下的全部数据文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Import.DataDir
			if len(args) == 1 {
				dir = args[0]
			}
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			sums, err := a.imports.ImportAll(cmd.Context(), dir)
			for _, s := range sums {
				logSummary(log, s)
			}
			return err
		},
	}
}

func newFetchCmd() *cobra.Command {
	var (
		dir       string
		andImport bool
	)
	cmd := &cobra.Command{
		Use:   "fetch <owner/dataset> <file>",
		Short: "从 Kaggle 下载数据文件，可选下载后立即导入",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.Import.DataDir
			}
			path, err := dataset.NewDownloader(&cfg.Kaggle, log).Fetch(cmd.Context(), args[0], args[1], dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if !andImport {
				return nil
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			sum, err := a.imports.Import(cmd.Context(), "", path)
			logSummary(log, sum)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "下载目录（默认 import.data_dir）")
	cmd.Flags().BoolVar(&andImport, "import", false, "下载后按文件名识别数据集并导入")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（导入触发与奖牌榜查询）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(cfg.Server.Mode)
			r := gin.Default()
			// 注册ppof 方便调试和监测性能问题
			pprof.Register(r)
			log.Infof("Gin运行模式: %s", cfg.Server.Mode)

			api.RegisterRoutes(r,
				api.NewImportHandler(a.imports, cfg.Import.DataDir, log),
				api.NewTallyHandler(a.tally, log),
			)

			log.Infof("服务启动成功，端口：%d", cfg.Server.Port)
			return r.Run(fmt.Sprintf(":%d", cfg.Server.Port))
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if log != nil {
			log.WithError(err).Error("执行失败")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

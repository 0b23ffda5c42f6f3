package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sou1ka/wallpaper-changer/internal/adapter/primary/web"
	"github.com/sou1ka/wallpaper-changer/internal/adapter/secondary/repository"
	"github.com/sou1ka/wallpaper-changer/internal/adapter/secondary/wallpaper"
	"github.com/sou1ka/wallpaper-changer/internal/logging"
	"github.com/sou1ka/wallpaper-changer/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallpaper-changer",
		Short: "デスクトップの壁紙をスケジュールで切り替えるCLI/Webサーバー",
		Long:  "スケジューラ + Web UI + CLIを兼ねる壁紙ローテーションツール",
	}

	defaultCfg := repository.DefaultPath()
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "設定ファイルのパス")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "ロギングを詳細化 (-v, -vv, ... 最大4回)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newDaemonCmd(),
		newWebCmd(),
		newServeCmd(),
		newConfigCmd(),
		newTargetsCmd(),
		newRotateCmd(),
		newRestoreCmd(),
		newShellCmd(),
	)

	return cmd
}

// newUseCase wires the secondary adapters into a fresh rotator use case.
func newUseCase() (usecase.RotatorUseCase, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return nil, err
	}
	return usecase.NewRotatorUseCase(repo, wallpaper.New(), afero.NewOsFs())
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "ローテーションループのみを起動（Webサーバーなし）",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Println("Wallpaper Changer daemon started")
			logging.Infof("rotation daemon started")
			uc.Start(ctx)

			<-ctx.Done()
			fmt.Println("Daemon shutting down...")
			uc.RestoreOriginal()
			return nil
		},
	}
}

func newWebCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Web UIとREST APIのみを起動（ローテーションなし）",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			srv := web.NewServer(uc, addr)
			fmt.Printf("Wallpaper Changer Web UI running at http://%s\n", addr)
			logging.Infof("Web UI: http://%s (rotation loop disabled)", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7071", "HTTPサーバーのアドレス:ポート")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Web UIとローテーションループを両方起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			// Start rotation loop
			uc.Start(ctx)
			defer uc.RestoreOriginal()

			srv := web.NewServer(uc, addr)
			fmt.Printf("Wallpaper Changer UI running at http://%s\n", addr)
			logging.Infof("Wallpaper Changer UI: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7071", "HTTPサーバーのアドレス:ポート")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定の取得・更新を行うサブコマンド",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "現在の設定(JSON)を表示",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			config, err := repo.Load()
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(web.ConfigView(config), "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		intervalFlag time.Duration
		startFlag    string
		endFlag      string
		weeklyFlag   []string
		monthlyFlag  []int
		randomFlag   bool
		seqFlag      bool
		defaultFlag  string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "設定を書き換え(保存後すぐループに反映)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if randomFlag && seqFlag {
				return fmt.Errorf("--random と --sequential は同時に指定できません")
			}

			uc, err := newUseCase()
			if err != nil {
				return err
			}
			config := uc.Snapshot().Config

			if cmd.Flags().Changed("interval") {
				config.Interval = intervalFlag
			}
			if cmd.Flags().Changed("start") {
				config.StartTime = startFlag
			}
			if cmd.Flags().Changed("end") {
				config.EndTime = endFlag
			}
			if cmd.Flags().Changed("weekly") {
				if len(weeklyFlag) == 0 {
					config.Weekly = nil
				} else {
					config.Weekly = weeklyFlag
				}
			}
			if cmd.Flags().Changed("monthly") {
				if len(monthlyFlag) == 0 {
					config.Monthly = nil
				} else {
					config.Monthly = monthlyFlag
				}
			}
			if randomFlag {
				config.Random = true
			}
			if seqFlag {
				config.Random = false
			}
			if cmd.Flags().Changed("default-wallpaper") {
				config.DefaultWallpaper = defaultFlag
			}

			if err := uc.UpdateConfig(config); err != nil {
				return err
			}

			fmt.Printf("保存しました: interval=%s random=%t targets=%d\n",
				config.EffectiveInterval(), config.Random, len(config.FileTargets))
			return nil
		},
	}
	cmd.Flags().DurationVar(&intervalFlag, "interval", time.Minute, "切り替えインターバル 例:45s,2m")
	cmd.Flags().StringVar(&startFlag, "start", "", "開始時刻 HH:MM (空文字で制限なし)")
	cmd.Flags().StringVar(&endFlag, "end", "", "終了時刻 HH:MM (空文字で制限なし)")
	cmd.Flags().StringSliceVar(&weeklyFlag, "weekly", nil, "実行する曜日 例:mon,wed,fri (空で制限なし)")
	cmd.Flags().IntSliceVar(&monthlyFlag, "monthly", nil, "実行する日付 例:1,15 (空で制限なし)")
	cmd.Flags().BoolVar(&randomFlag, "random", false, "ランダム順に切り替える")
	cmd.Flags().BoolVar(&seqFlag, "sequential", false, "登録順に切り替える")
	cmd.Flags().StringVar(&defaultFlag, "default-wallpaper", "", "復元に使うデフォルト壁紙のパス")
	return cmd
}

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "壁紙ターゲットの追加・削除・一覧",
	}

	add := &cobra.Command{
		Use:   "add <path>...",
		Short: "ファイルまたはフォルダを追加（フォルダは再帰的に展開）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}
			list, err := uc.AddTargets(args)
			if err != nil {
				return err
			}
			fmt.Printf("登録済みターゲット: %d件\n", len(list))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <path>",
		Short: "ターゲットを1件削除",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}
			list, err := uc.RemoveTarget(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("登録済みターゲット: %d件\n", len(list))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "登録済みターゲットを一覧表示",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			config, err := repo.Load()
			if err != nil {
				return err
			}
			for _, t := range config.FileTargets {
				fmt.Println(t)
			}
			return nil
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}

func newRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "今すぐ1回壁紙を切り替える",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}
			if err := uc.RotateNow(); err != nil {
				return err
			}
			snap := uc.Snapshot()
			fmt.Printf("切り替えました: %s\n", snap.State.LastShown)
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "元の壁紙（またはデフォルト壁紙）に戻す",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newUseCase()
			if err != nil {
				return err
			}
			uc.RestoreOriginal()
			fmt.Println("戻しました")
			return nil
		},
	}
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Cobraサブコマンドを対話的に叩けるシェルを起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "wallpaper> ", "シェルのプロンプト文字列")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "wallpaper-changer-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("対話型シェルを開始します。'help' で使い方、'exit' で終了。")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("すでにシェル内です。他のコマンドを入力するか 'exit' で終了してください。")
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(tokens); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "指定レベル(error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "現在のレベルを表示")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`利用可能な入力例:
  daemon                      # ローテーションループを起動
  web --addr 0.0.0.0:7071     # Web UIを起動
  serve --addr 0.0.0.0:8080   # Web UI + ローテーションを起動
  config get                  # 設定を確認
  config set --interval 5m    # 設定を更新
  config set --sequential     # 登録順モードに切り替え
  targets add ~/Pictures      # フォルダ内の画像を一括登録
  targets list                # 登録済みターゲットを確認
  rotate                      # 今すぐ1回切り替え
  restore                     # 元の壁紙に戻す
  log -vv                     # ログ出力を詳細化
  log --show                  # 現在のログレベルを確認
  exit / quit                 # シェル終了`)
}

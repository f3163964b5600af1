package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/ai_news_daily/internal/config"
	"github.com/iWorld-y/ai_news_daily/internal/engine"
	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/server"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "ai_news_daily"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	// 配置文件可省略，此时使用内建默认值加环境变量
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf configs/config.yaml")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		stdlog.Fatalf("无法初始化日志: %v", err)
	}

	// kratos 侧日志，包含时间戳、调用者信息、服务ID等上下文
	klogger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	srv := server.NewHTTPServer(&cfg.Server, eng, klogger)

	logger.Log.Infof("AI News Daily 服务启动，监听 %s", cfg.Server.Addr)
	if err := newApp(klogger, srv).Run(); err != nil {
		logger.Log.Fatalf("服务运行失败: %v", err)
	}
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

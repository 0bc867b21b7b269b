package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"AirlineSafety/src/config"
	"AirlineSafety/src/datasource/file"
	"AirlineSafety/src/processor"
	"AirlineSafety/src/report"
	"AirlineSafety/src/storage"
	"AirlineSafety/src/utils"
	"AirlineSafety/src/web"

	"github.com/robfig/cron"
	flag "github.com/spf13/pflag"
)

var (
	configDir   = flag.String("config-dir", "./config", "directory holding config.json and dataconfig.json")
	printReport = flag.Bool("report", false, "print summary metrics and the safety ranking, then exit")
	exportPath  = flag.String("export", "", "write the wide and long tables to an xlsx file, then exit")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, dcfg, err := config.LoadConfig(*configDir, "config.json", "dataconfig.json")
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()

	// 数据只在启动时加载一次，失败则退出
	ds, err := loadDataset(cfg.DataFile, cfg.SheetName, logger)
	if err != nil {
		logger.Fatal(err.Error())
		return err
	}

	if *printReport {
		writeReport(os.Stdout, ds)
		return nil
	}
	if *exportPath != "" {
		sheets, err := ds.ExportSheets(dcfg.GetColumn, processor.Filter{})
		if err != nil {
			return err
		}
		if err := utils.SaveToExcel(*exportPath, sheets...); err != nil {
			return err
		}
		logger.Info("已导出: " + *exportPath)
		return nil
	}

	if err := writePidFile(cfg.PidFile); err != nil {
		logger.Warning("写入pid文件失败: " + err.Error())
	} else {
		defer os.Remove(cfg.PidFile)
	}

	// 设置定时任务
	c, err := scheduleRotation(logger, cfg)
	if err != nil {
		logger.Error("创建定时任务失败: " + err.Error())
		return err
	}
	c.Start()
	defer c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchSource {
		go watchSource(ctx, cfg.DataFile, logger)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: web.NewServer(ds, logger, web.Options{
			CorsOrigins: cfg.Server.CorsOrigins,
			DataConfig:  dcfg,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("仪表盘服务已启动: " + cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	return waitForShutdown(srv, logger, errChan)
}

// loadDataset 读取源文件并构建只读数据集
func loadDataset(path, sheet string, logger *storage.Logger) (*processor.Dataset, error) {
	t1 := time.Now()
	records, err := file.Load(path, sheet)
	if err != nil {
		return nil, err
	}

	ds := processor.Build(records)
	if dups := file.DuplicateAirlines(ds.Records()); len(dups) > 0 {
		logger.Warning("航司名称重复，风险等级按名称合并，改善状态取第一次出现: " + strings.Join(dups, ", "))
	}
	logger.Info(fmt.Sprintf("已加载 %d 家航司，长表 %d 行，耗时 %v", ds.Len(), len(ds.LongTable()), time.Since(t1)))
	return ds, nil
}

func writeReport(w io.Writer, ds *processor.Dataset) {
	report.PrintSummary(w, ds.Summary())
	fmt.Fprintln(w)
	report.PrintRanking(w, ds.WideTable())
}

func writePidFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// scheduleRotation 按配置间隔检查日志大小
func scheduleRotation(logger *storage.Logger, cfg *config.Config) (*cron.Cron, error) {
	c := cron.New()

	// 使用配置中的检查间隔而不是硬编码
	interval := time.Duration(cfg.LogCheckInterval).String() // 例如 "1m0s"
	cronSpec := fmt.Sprintf("@every %s", interval)

	err := c.AddFunc(cronSpec, func() {
		rotated, err := logger.CheckRotate(cfg.LogMaxSize)
		if err != nil {
			logger.Error("日志轮转失败: " + err.Error())
			return
		}
		if rotated {
			logger.Info("日志已轮转")
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// watchSource 数据文件在运行期间变化时提示需要重启
func watchSource(ctx context.Context, path string, logger *storage.Logger) {
	monitor, err := file.NewFileMonitor(path)
	if err != nil {
		logger.Error("监控数据文件失败: " + err.Error())
		return
	}
	defer monitor.Close()

	err = monitor.Watch(ctx, func(name string) {
		logger.Warning("数据文件已变化，重启服务后生效: " + name)
	})
	if err != nil {
		logger.Error("File monitoring error: " + err.Error())
	}
}

// waitForShutdown SIGHUP 重新打开日志文件，SIGINT/SIGTERM 优雅退出
func waitForShutdown(srv *http.Server, logger *storage.Logger, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case err := <-errChan:
			logger.Error("HTTP服务异常退出: " + err.Error())
			return err
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if err := logger.Reopen(""); err != nil {
					log.Printf("Failed to reopen log: %v", err)
				}
				logger.Info("Received SIGHUP, log file reopened")
				continue
			}

			logger.Info("Received signal: " + sig.String() + ", shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	}
}

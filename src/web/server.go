package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"AirlineSafety/src/charts"
	"AirlineSafety/src/config"
	"AirlineSafety/src/processor"
	"AirlineSafety/src/storage"
	"AirlineSafety/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server 仪表盘 HTTP 接口。数据集只读，处理函数之间不共享可变状态。
type Server struct {
	dataset  *processor.Dataset
	logger   *storage.Logger
	dcfg     *config.DataConfig
	palette  charts.Palette
	metrics  *Metrics
	registry *prometheus.Registry
	router   chi.Router
}

// Options 服务器配置
type Options struct {
	CorsOrigins []string
	DataConfig  *config.DataConfig
}

func NewServer(ds *processor.Dataset, logger *storage.Logger, opt Options) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		dataset:  ds,
		logger:   logger,
		dcfg:     opt.DataConfig,
		palette:  charts.PaletteFrom(opt.DataConfig),
		metrics:  NewMetrics(reg),
		registry: reg,
	}
	s.metrics.LoadedAirlines.Set(float64(ds.Len()))
	s.metrics.LongTableRows.Set(float64(len(ds.LongTable())))
	s.router = s.routes(opt.CorsOrigins)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(origins []string) chi.Router {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(s.instrument)

	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)
	r.Get("/logs", s.handleLogs)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/wide", s.handleWide)
		r.Get("/long", s.handleLong)
		r.Get("/summary", s.handleSummary)
		r.Get("/filters", s.handleFilters)
		r.Get("/export.xlsx", s.handleExport)
	})
	r.Get("/charts/{name}", s.handleChart)
	return r
}

// instrument 记录请求日志和指标，路由标签使用 chi 的路由模式
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.metrics.Requests.WithLabelValues(route, fmt.Sprint(status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		if route != "/logs" {
			s.logger.Debug(fmt.Sprintf("%s %s %d %v", r.Method, r.URL.RequestURI(), status, elapsed))
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"airlines": s.dataset.Len(),
	})
}

func (s *Server) handleWide(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dataset.WideTable())
}

func (s *Server) handleLong(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dataset.Apply(ParseFilter(r.URL.Query())))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dataset.Summary())
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dataset.FilterOptions())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var name processor.ColumnNamer
	if s.dcfg != nil {
		name = s.dcfg.GetColumn
	}
	// 长表与仪表盘使用相同的筛选参数
	sheets, err := s.dataset.ExportSheets(name, ParseFilter(r.URL.Query()))
	if err != nil {
		s.logger.Error("导出失败: " + err.Error())
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := utils.WriteExcel(&buf, sheets...); err != nil {
		s.logger.Error("导出失败: " + err.Error())
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="airline-safety.xlsx"`)
	s.metrics.ExportBytes.Add(float64(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rows := s.dataset.Apply(ParseFilter(r.URL.Query()))

	c, err := charts.Build(name, rows, s.palette)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rows := s.dataset.Apply(ParseFilter(r.URL.Query()))

	var buf bytes.Buffer
	if err := charts.Dashboard(rows, s.palette).Render(&buf); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}
	writeHTML(w, buf.Bytes())
}

// handleLogs 实时输出日志，客户端断开时取消订阅
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	logChan := s.logger.Subscribe()
	defer s.logger.Unsubscribe(logChan)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case msg, ok := <-logChan:
			if !ok {
				return
			}
			// 写入失败(如客户端断开连接)则退出
			if _, err := fmt.Fprint(w, msg); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Server struct {
		Addr        string   `json:"addr"`         // HTTP 监听地址
		CorsOrigins []string `json:"cors_origins"` // 允许跨域的来源
	} `json:"server"`

	DataFile         string   `json:"data_file"`          // 航司安全数据文件(.csv/.xlsx)
	SheetName        string   `json:"sheet_name"`         // xlsx 工作表，空为第一个
	LogName          string   `json:"log_name"`           // 日志文件
	LogMaxSize       string   `json:"log_max_size"`       // 例如 "10 * 1024 * 1024"
	LogCheckInterval Duration `json:"log_check_interval"` // 检查日志大小的间隔
	WatchSource      bool     `json:"watch_source"`       // 数据文件变化时告警
	PidFile          string   `json:"pid_file"`
}

// DataConfig 展示相关配置
type DataConfig struct {
	Columns map[string]string `json:"columns"` // 宽表列名 -> 导出显示名
	Colors  map[string]string `json:"colors"`  // 图表配色
}

// 默认配置
const (
	DefaultAddr             = ":8080"
	DefaultDataFile         = "data/airline-safety.csv"
	DefaultLogName          = "app.log"
	DefaultLogMaxSize       = "10 * 1024 * 1024"
	DefaultLogCheckInterval = Duration(time.Minute)
	DefaultPidFile          = "app.pid"
)

// DefaultColors 默认配色
var DefaultColors = map[string]string{
	"primary":   "#2C5AA0",
	"accent":    "#0DCAF0",
	"danger":    "#DC3545",
	"warning":   "#FFC107",
	"success":   "#198754",
	"secondary": "#6C757D",
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	loadErr            error
	mu                 sync.RWMutex
)

// LoadConfig 进程内只加载一次
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	once.Do(func() {
		instance, dataConfigInstance, loadErr = Load(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, loadErr
}

// Load 每次都重新读取，主要用于测试
func Load(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	cfg.applyDefaults()
	dcfg.applyDefaults()
	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	// 使用固定格式字符串
	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.LogName == "" {
		c.LogName = DefaultLogName
	}
	if c.LogMaxSize == "" {
		c.LogMaxSize = DefaultLogMaxSize
	}
	if c.LogCheckInterval <= 0 {
		c.LogCheckInterval = DefaultLogCheckInterval
	}
	if c.PidFile == "" {
		c.PidFile = DefaultPidFile
	}
}

func (dc *DataConfig) applyDefaults() {
	if dc.Columns == nil {
		dc.Columns = map[string]string{}
	}
	if dc.Colors == nil {
		dc.Colors = map[string]string{}
	}
	for k, v := range DefaultColors {
		if _, ok := dc.Colors[k]; !ok {
			dc.Colors[k] = v
		}
	}
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// GetColumn 导出显示名，没有配置时返回原列名
func (dc *DataConfig) GetColumn(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.Columns[colName]; ok && v != "" {
		return v
	}
	return colName
}

// GetColor 图表配色，没有配置时使用默认配色
func (dc *DataConfig) GetColor(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.Colors[name]; ok {
		return v
	}
	return DefaultColors[name]
}

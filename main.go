package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
)

var pidFile = flag.String("pid-file", "app.pid", "pid file written by the dashboard server")

// 向仪表盘进程发送 SIGHUP，使其重新打开日志文件
func main() {
	flag.Parse()

	pid, err := readPid(*pidFile)
	if err != nil {
		log.Fatal("Failed to read pid file:", err)
	}
	if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
		log.Fatal("Failed to send SIGHUP:", err)
	}
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("无效的pid %q", strings.TrimSpace(string(data)))
	}
	return pid, nil
}

package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

const (
	defaultLogDir     = "./logs"
	defaultLogFile    = "runtime.log"
	defaultMaxSizeMB  = 100
	defaultMaxAgeDays = 7
)

var (
	mu     sync.RWMutex
	logger = log.New(&lumberjack.Logger{
		Filename: getLogFilename(),
		MaxSize:  getEnvInt("LOGFILE_MAX_SIZE_MB", defaultMaxSizeMB), // megabytes
		MaxAge:   getEnvInt("LOGFILE_MAX_AGE_DAYS", defaultMaxAgeDays), // days
	}, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

func getLogFilename() string {
	if logFile := os.Getenv("LOGFILE"); logFile != "" {
		return filepath.Join(defaultLogDir, logFile)
	}
	return filepath.Join(defaultLogDir, defaultLogFile)
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// Init points the logger at a rotating file under dir.
func Init(dir, file string, maxSizeMB, maxAgeDays int) {
	if file == "" {
		file = defaultLogFile
	}
	SetOutput(&lumberjack.Logger{
		Filename: filepath.Join(dir, file),
		MaxSize:  maxSizeMB,
		MaxAge:   maxAgeDays,
	})
}

// SetOutput redirects all subsequent log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func write(level, color, category string, content ...interface{}) {
	message := fmt.Sprint(content...)
	coloredCategory := fmt.Sprintf("%s[%s][%s]%s", color, level, category, ColorReset)
	mu.RLock()
	defer mu.RUnlock()
	logger.Printf("%s: %s", coloredCategory, message)
}

func Info(category string, content ...interface{}) {
	write("INFO", ColorGreen, category, content...)
}

func Error(category string, content ...interface{}) {
	write("ERROR", ColorRed, category, content...)
}

func Warn(category string, content ...interface{}) {
	write("WARN", ColorYellow, category, content...)
}

func Debug(category string, content ...interface{}) {
	write("DEBUG", ColorBlue, category, content...)
}

// Errorf logs an error message and returns a formatted error
func Errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	Error("ERROR", err.Error())
	return err
}

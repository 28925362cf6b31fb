package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"Aegis/Models"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Include request body in logs
	IncludeBody bool
	// Include user info in logs
	IncludeUser bool
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData contains all the information that will be logged
type LogData struct {
	Timestamp   time.Time     `json:"timestamp"`
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Status      int           `json:"status"`
	Latency     time.Duration `json:"latency"`
	IP          string        `json:"ip"`
	UserAgent   string        `json:"user_agent"`
	RequestBody interface{}   `json:"request_body,omitempty"`
	Error       string        `json:"error,omitempty"`
	UserID      uint          `json:"user_id,omitempty"`
	UserRole    string        `json:"user_role,omitempty"`
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		IncludeBody: false,
		IncludeUser: true,
		SkipPaths:   []string{"/health"},
	}
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	// Ensure logs directory exists
	if cfg.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		start := time.Now()

		var requestBody interface{}
		if cfg.IncludeBody && c.Method() != fiber.MethodGet {
			body := c.Body()
			if len(body) > 0 {
				var jsonData interface{}
				if err := json.Unmarshal(body, &jsonData); err == nil {
					requestBody = jsonData
				} else {
					requestBody = string(body)
				}
			}
		}

		err := c.Next()

		data := LogData{
			Timestamp:   start,
			Method:      c.Method(),
			Path:        c.Path(),
			Status:      c.Response().StatusCode(),
			Latency:     time.Since(start),
			IP:          c.IP(),
			UserAgent:   c.Get("User-Agent"),
			RequestBody: requestBody,
		}
		if err != nil {
			data.Error = err.Error()
		}
		if cfg.IncludeUser {
			if user, ok := c.Locals("user").(Models.User); ok {
				data.UserID = user.ID
				data.UserRole = string(user.Role)
			}
		}

		if cfg.Console {
			log.Printf("%s %s -> %d (%s)", data.Method, data.Path, data.Status, data.Latency)
		}
		if cfg.File {
			writeLogToFile(cfg.LogFilePath, data)
		}

		return err
	}
}

func writeLogToFile(path string, data LogData) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer f.Close()

	line, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling log data: %v\n", err)
		return
	}
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		log.Printf("Error writing log file: %v\n", err)
	}
}

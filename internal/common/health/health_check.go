package health

import (
	"runtime"
	"time"

	"gorm.io/gorm"
)

// Status represents the overall health of the application
type Status struct {
	Status    string                 `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Uptime    int64                  `json:"uptime_seconds"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool        `json:"healthy"`
	Details interface{} `json:"details,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Checker provides health check functionality
type Checker struct {
	db        *gorm.DB
	version   string
	startTime time.Time
}

// NewChecker creates a new health checker
func NewChecker(db *gorm.DB, version string) *Checker {
	return &Checker{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// Check performs a complete health check
func (hc *Checker) Check() Status {
	status := Status{
		Timestamp: time.Now(),
		Version:   hc.version,
		Checks:    make(map[string]interface{}),
		Uptime:    int64(time.Since(hc.startTime).Seconds()),
	}

	dbCheck := hc.checkDatabase()
	status.Checks["database"] = dbCheck

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	status.Checks["runtime"] = map[string]interface{}{
		"goroutines":    runtime.NumGoroutine(),
		"heap_alloc_mb": mem.HeapAlloc / 1024 / 1024,
	}

	if dbCheck.Healthy {
		status.Status = "healthy"
	} else {
		status.Status = "unhealthy"
	}
	return status
}

// IsReady reports whether the service can take traffic.
func (hc *Checker) IsReady() bool {
	return hc.checkDatabase().Healthy
}

// IsAlive reports whether the process is responsive.
func (hc *Checker) IsAlive() bool {
	return true
}

func (hc *Checker) checkDatabase() ComponentHealth {
	if hc.db == nil {
		return ComponentHealth{Healthy: false, Error: "database not initialized"}
	}

	sqlDB, err := hc.db.DB()
	if err != nil {
		return ComponentHealth{Healthy: false, Error: err.Error()}
	}

	if err := sqlDB.Ping(); err != nil {
		return ComponentHealth{Healthy: false, Error: err.Error()}
	}

	stats := sqlDB.Stats()
	return ComponentHealth{
		Healthy: true,
		Details: map[string]interface{}{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
		},
	}
}

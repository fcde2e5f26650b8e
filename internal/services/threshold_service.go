package services

import (
	"os"
	"reflect"
	"time"

	"github.com/incidentalert/backend/internal/automation"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

// ThresholdService periodically applies on-time-threshold rules to incidents
// that are still open. These rules have no user action to hang off, so a
// background sweep is the only way they ever fire.
type ThresholdService struct {
	db       *gorm.DB
	engine   *automation.Engine
	hub      *realtime.Hub
	interval time.Duration
}

func NewThresholdService(db *gorm.DB, engine *automation.Engine, hub *realtime.Hub) *ThresholdService {
	interval := time.Hour
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}
	return &ThresholdService{db: db, engine: engine, hub: hub, interval: interval}
}

// Start runs the sweep loop until stopChan closes.
func (ts *ThresholdService) Start(stopChan <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(ts.interval)
		defer ticker.Stop()

		logger.Info("Time-threshold sweeper started", map[string]interface{}{
			"interval": ts.interval.String(),
		})

		for {
			select {
			case <-ticker.C:
				ts.Sweep()
			case <-stopChan:
				logger.Info("Time-threshold sweeper stopped", nil)
				return
			}
		}
	}()
}

// Sweep applies on-time-threshold rules to every non-closed incident and
// persists the ones that changed.
func (ts *ThresholdService) Sweep() {
	var rules []models.AutomationRule
	if err := ts.db.Where(`enabled = ? AND "trigger" = ?`, true, models.TriggerOnTimeThreshold).
		Order("created_at asc, id asc").Find(&rules).Error; err != nil {
		logger.WithError(err, "threshold_service").Error("Failed to load rules")
		return
	}
	if len(rules) == 0 {
		return
	}

	var incidents []models.Incident
	if err := ts.db.Where("status <> ?", models.StatusClosed).Find(&incidents).Error; err != nil {
		logger.WithError(err, "threshold_service").Error("Failed to load incidents")
		return
	}

	changed := 0
	for _, incident := range incidents {
		updated := ts.engine.Apply(incident, models.TriggerOnTimeThreshold, rules)
		if incidentEqual(incident, updated) {
			continue
		}
		if err := ts.db.Save(&updated).Error; err != nil {
			logger.WithError(err, "threshold_service").Error("Failed to save incident")
			continue
		}
		changed++
	}

	if changed > 0 {
		logger.Info("Time-threshold sweep applied rules", map[string]interface{}{
			"incidents_changed": changed,
		})
		var snapshot []models.Incident
		if err := ts.db.Order("created_at desc").Find(&snapshot).Error; err == nil {
			ts.hub.Publish(realtime.CollectionIncidents, snapshot)
		}
	}
}

// incidentEqual compares the fields rule actions can touch.
func incidentEqual(a, b models.Incident) bool {
	return a.Status == b.Status &&
		a.Priority == b.Priority &&
		a.AssignedTo == b.AssignedTo &&
		reflect.DeepEqual(a.Tags, b.Tags)
}

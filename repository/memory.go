package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"sargassum-ops-api/models"
)

// MemoryStore is an in-memory Store used by tests and local tooling.
type MemoryStore struct {
	mu sync.Mutex

	beaches []models.Beach
	risks   []models.BeachDailyRisk
	alerts  []models.Alert

	nextBeachID uint
	nextRiskID  uint
	nextAlertID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextBeachID: 1,
		nextRiskID:  1,
		nextAlertID: 1,
	}
}

func (s *MemoryStore) ListBeaches(ctx context.Context) ([]models.Beach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Beach, len(s.beaches))
	copy(out, s.beaches)
	return out, nil
}

func (s *MemoryStore) CountBeaches(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.beaches)), nil
}

func (s *MemoryStore) CreateBeach(ctx context.Context, beach *models.Beach) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if beach.ID == 0 {
		beach.ID = s.nextBeachID
	}
	if beach.ID >= s.nextBeachID {
		s.nextBeachID = beach.ID + 1
	}
	if beach.CreatedAt.IsZero() {
		beach.CreatedAt = time.Now()
	}
	s.beaches = append(s.beaches, *beach)
	return nil
}

func (s *MemoryStore) UpsertDailyRisk(ctx context.Context, risk *models.BeachDailyRisk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	risk.Date = DateOnly(risk.Date)
	for i := range s.risks {
		if s.risks[i].BeachID == risk.BeachID && s.risks[i].Date.Equal(risk.Date) {
			s.risks[i].RiskLevel = risk.RiskLevel
			s.risks[i].RawValue = risk.RawValue
			s.risks[i].Confidence = risk.Confidence
			s.risks[i].Source = risk.Source
			risk.ID = s.risks[i].ID
			risk.CreatedAt = s.risks[i].CreatedAt
			return nil
		}
	}
	risk.ID = s.nextRiskID
	s.nextRiskID++
	if risk.CreatedAt.IsZero() {
		risk.CreatedAt = time.Now()
	}
	s.risks = append(s.risks, *risk)
	return nil
}

func (s *MemoryStore) HighRiskForDate(ctx context.Context, date time.Time, minLevel int) ([]HighRiskBeach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := DateOnly(date)

	var rows []HighRiskBeach
	for _, r := range s.risks {
		if !r.Date.Equal(day) || r.RiskLevel < minLevel {
			continue
		}
		rows = append(rows, HighRiskBeach{
			BeachID:    r.BeachID,
			BeachName:  s.beachName(r.BeachID),
			RiskLevel:  r.RiskLevel,
			Date:       r.Date,
			Source:     r.Source,
			RawValue:   r.RawValue,
			Confidence: r.Confidence,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RiskLevel > rows[j].RiskLevel
	})
	return rows, nil
}

func (s *MemoryStore) RiskTimeseries(ctx context.Context, beachID uint, start, end time.Time) ([]models.BeachDailyRisk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	first, last := DateOnly(start), DateOnly(end)

	var rows []models.BeachDailyRisk
	for _, r := range s.risks {
		if r.BeachID != beachID || r.Date.Before(first) || r.Date.After(last) {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (s *MemoryStore) CountRisksByLevel(ctx context.Context, date time.Time) (RiskLevelCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := DateOnly(date)

	var counts RiskLevelCounts
	for _, r := range s.risks {
		if !r.Date.Equal(day) {
			continue
		}
		counts.Total++
		switch r.RiskLevel {
		case models.RiskLevelHigh:
			counts.High++
		case models.RiskLevelMedium:
			counts.Medium++
		case models.RiskLevelLow:
			counts.Low++
		default:
			counts.None++
		}
	}
	return counts, nil
}

func (s *MemoryStore) CreateAlertIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.BeachID == alert.BeachID && a.AlertType == alert.AlertType && a.IsActive {
			return false, nil
		}
	}
	alert.ID = s.nextAlertID
	s.nextAlertID++
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	s.alerts = append(s.alerts, *alert)
	return true, nil
}

func (s *MemoryStore) RecentAlerts(ctx context.Context, limit int, activeOnly bool) ([]AlertWithBeach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []AlertWithBeach
	for _, a := range s.alerts {
		if activeOnly && !a.IsActive {
			continue
		}
		rows = append(rows, AlertWithBeach{
			ID:         a.ID,
			BeachID:    a.BeachID,
			BeachName:  s.beachName(a.BeachID),
			AlertType:  a.AlertType,
			Severity:   a.Severity,
			Message:    a.Message,
			IsActive:   a.IsActive,
			ResolvedAt: a.ResolvedAt,
			CreatedAt:  a.CreatedAt,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) CountActiveAlertsSince(ctx context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, a := range s.alerts {
		if !a.IsActive {
			continue
		}
		if !since.IsZero() && a.CreatedAt.Before(since) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) ResolveAlert(ctx context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id && s.alerts[i].IsActive {
			s.alerts[i].IsActive = false
			resolved := at
			s.alerts[i].ResolvedAt = &resolved
			return nil
		}
	}
	return ErrNotFound
}

// Transaction in the memory store is a plain sequential call; individual
// operations already serialize on the mutex.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

// beachName expects the mutex held.
func (s *MemoryStore) beachName(id uint) string {
	for _, b := range s.beaches {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

package services

import (
	"log"
	"sync"
	"time"
)

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Reason    string
}

// LoginMonitor watches failed admin logins per IP and raises one alert per
// hour for an IP that keeps failing.
type LoginMonitor struct {
	mu           sync.Mutex
	threshold    int
	window       time.Duration
	failedLogins map[string][]time.Time // IP -> failures inside window
	alertedIPs   map[string]time.Time   // IP -> last alert
	alerts       []SecurityAlert        // newest first, capped
}

const maxStoredAlerts = 100

func NewLoginMonitor() *LoginMonitor {
	return &LoginMonitor{
		threshold:    MaxFailedLoginAttempts,
		window:       10 * time.Minute,
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failure and reports whether it raised an alert
func (m *LoginMonitor) TrackFailedLogin(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-m.window)

	recent := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failedLogins[ip] = recent

	if len(recent) < m.threshold {
		return false
	}
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < time.Hour {
		return false
	}

	m.alertedIPs[ip] = now
	m.alerts = append([]SecurityAlert{{Timestamp: now, IP: ip, Reason: "Multiple failed logins detected"}}, m.alerts...)
	if len(m.alerts) > maxStoredAlerts {
		m.alerts = m.alerts[:maxStoredAlerts]
	}
	log.Printf("[SECURITY ALERT] Multiple failed logins detected from IP: %s", ip)
	return true
}

// ResetIP forgets the failures of an IP after a successful login
func (m *LoginMonitor) ResetIP(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failedLogins, ip)
}

// RecentAlerts returns a copy of the stored alerts, newest first
func (m *LoginMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := make([]SecurityAlert, len(m.alerts))
	copy(alerts, m.alerts)
	return alerts
}

package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Well-known directory keys referenced by the message templates.
const (
	URLMainDashboard     = "main_dashboard"
	URLHealthDashboard   = "health_dashboard"
	URLRolloutsAudit     = "rollouts_audit"
	URLTemporalDashboard = "temporal_dashboard"
	URLSROUpdates        = "sro_updates"
	URLOBDDashboard      = "obd_dashboard"

	ContactExchangeRevenueOps = "exchange_revenue_ops"
	ContactBaptistePoirier    = "baptiste_poirier"
	ContactNikaKozhukh        = "nika_kozhukh"
	ContactSergeiSmirnov      = "sergei_smirnov"
	ContactCelineTran         = "celine_tran"

	ChannelIncidents   = "incidents"
	ChannelOKR         = "okr"
	ChannelDevOps      = "devops"
	ChannelExperiments = "experiments"
)

// Directory is the static lookup data that message templates link to:
// dashboards, escalation contacts and broadcast channels. It is built once at
// startup and never mutated afterwards.
//
// Hierarchical data like this is easier to manage in YAML than env vars.
type Directory struct {
	MonitoringURLs map[string]string `koanf:"monitoring_urls"`
	TeamContacts   map[string]string `koanf:"team_contacts"` // contact key -> Slack user ID
	Channels       map[string]string `koanf:"channels"`      // channel key -> Slack channel ID
}

// DefaultDirectory returns the built-in directory.
func DefaultDirectory() *Directory {
	return &Directory{
		MonitoringURLs: map[string]string{
			URLMainDashboard:     "https://pivot.bidmachine.io/pivot/c/9585/-Exchange-_Daily_performance_monitoring",
			URLHealthDashboard:   "https://grafana.appodeal.com/d/cde3ebce-204e-4f1d-967f-1a915e3ba429/health-checklist",
			URLRolloutsAudit:     "https://rollouts-ui.bidmachine.io/audit",
			URLTemporalDashboard: "https://temporal.bidmachine.io/namespaces/default/workflows/",
			URLSROUpdates:        "https://appodeal.slack.com/archives/C08T3SYMHCM/",
			URLOBDDashboard:      "https://dbc-4cdcc63c-7af8.cloud.databricks.com/dashboardsv3/01f03580ca8d1556b8e4f0e36ca3a37b/published",
		},
		TeamContacts: map[string]string{},
		Channels: map[string]string{
			ChannelIncidents:   "C09EB37M4HE",
			ChannelOKR:         "C09EB37M4HE",
			ChannelDevOps:      "C09EB37M4HE",
			ChannelExperiments: "C09EB37M4HE",
		},
	}
}

// LoadDirectory overlays the YAML file at path and HOLMES_* environment
// variables on top of DefaultDirectory. A missing file is not an error.
//
// Environment keys use "__" as the level separator, e.g.
// HOLMES_CHANNELS__INCIDENTS=C0123456 sets channels.incidents.
func LoadDirectory(path string) (*Directory, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("HOLMES_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var loaded Directory
	if err := k.Unmarshal("", &loaded); err != nil {
		return nil, fmt.Errorf("failed to decode directory: %w", err)
	}

	dir := DefaultDirectory()
	maps.Copy(dir.MonitoringURLs, loaded.MonitoringURLs)
	maps.Copy(dir.TeamContacts, loaded.TeamContacts)
	maps.Copy(dir.Channels, loaded.Channels)
	return dir, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "HOLMES_")), "__", ".")
}

// URL returns the dashboard URL for key, or "" when unknown.
func (d *Directory) URL(key string) string {
	if d == nil {
		return ""
	}
	return d.MonitoringURLs[key]
}

// Contact returns the Slack user ID for key, or fallback when the contact is
// not configured.
func (d *Directory) Contact(key, fallback string) string {
	if d == nil {
		return fallback
	}
	if id := d.TeamContacts[key]; id != "" {
		return id
	}
	return fallback
}

// Channel returns the channel ID for key, or "" when not configured.
func (d *Directory) Channel(key string) string {
	if d == nil {
		return ""
	}
	return d.Channels[key]
}

package render

import (
	"fmt"

	"github.com/slack-go/slack"

	"holmes/internal/config"
)

// Template names.
const (
	InitialDecision         = "initial_decision"
	AlertRevenue            = "alert_revenue"
	AlertTraffic            = "alert_traffic"
	AlertErrors             = "alert_errors"
	AlertGeneral            = "alert_general"
	Selection               = "selection"
	InvestigationStarted    = "investigation_started"
	RevenueOptions          = "revenue_options"
	TrafficOptions          = "traffic_options"
	ErrorOptions            = "error_options"
	LatencyOptions          = "latency_options"
	AdRequestsSteps         = "ad_requests_steps"
	BidRequestsSteps        = "bid_requests_steps"
	SharpBidDrop            = "sharp_bid_drop"
	SharpBidStarted         = "sharp_bid_started"
	HighTimeoutsSteps       = "high_timeouts_steps"
	Errors5xxDCSteps        = "errors_5xx_dc_steps"
	LatencyDegradationSteps = "latency_degradation_steps"
	CrossDCRoutingSteps     = "cross_dc_routing_steps"
	DiscrepancyAnalysis     = "discrepancy_analysis"
	OverspendSelected       = "overspend_selected"
	MassiveOverspend        = "massive_overspend"
	CriticalOverspend       = "critical_overspend"
	GradualDropSteps        = "gradual_drop_steps"
	IncidentAlert           = "incident_alert"
	DruidUnavailable        = "druid_unavailable"
	DruidAvailable          = "druid_available"
	SRODeployFound          = "sro_deploy_found"
	NoSROChanges            = "no_sro_changes"
	SDKActivationFound      = "sdk_activation_found"
	NoSDKChanges            = "no_sdk_changes"
)

var templates = map[string]template{
	InitialDecision:         (*Renderer).initialDecision,
	AlertRevenue:            (*Renderer).alertRevenue,
	AlertTraffic:            (*Renderer).alertTraffic,
	AlertErrors:             (*Renderer).alertErrors,
	AlertGeneral:            (*Renderer).alertGeneral,
	Selection:               (*Renderer).selection,
	InvestigationStarted:    (*Renderer).investigationStarted,
	RevenueOptions:          (*Renderer).revenueOptions,
	TrafficOptions:          (*Renderer).trafficOptions,
	ErrorOptions:            (*Renderer).errorOptions,
	LatencyOptions:          (*Renderer).latencyOptions,
	AdRequestsSteps:         (*Renderer).adRequestsSteps,
	BidRequestsSteps:        (*Renderer).bidRequestsSteps,
	SharpBidDrop:            (*Renderer).sharpBidDrop,
	SharpBidStarted:         (*Renderer).sharpBidStarted,
	HighTimeoutsSteps:       (*Renderer).highTimeoutsSteps,
	Errors5xxDCSteps:        (*Renderer).errors5xxDCSteps,
	LatencyDegradationSteps: (*Renderer).latencyDegradationSteps,
	CrossDCRoutingSteps:     (*Renderer).crossDCRoutingSteps,
	DiscrepancyAnalysis:     (*Renderer).discrepancyAnalysis,
	OverspendSelected:       (*Renderer).overspendSelected,
	MassiveOverspend:        (*Renderer).massiveOverspend,
	CriticalOverspend:       (*Renderer).criticalOverspend,
	GradualDropSteps:        (*Renderer).gradualDropSteps,
	IncidentAlert:           (*Renderer).incidentAlert,
	DruidUnavailable:        (*Renderer).druidUnavailable,
	DruidAvailable:          (*Renderer).druidAvailable,
	SRODeployFound:          (*Renderer).sroDeployFound,
	NoSROChanges:            (*Renderer).noSROChanges,
	SDKActivationFound:      (*Renderer).sdkActivationFound,
	NoSDKChanges:            (*Renderer).noSDKChanges,
}

const criticalImageURL = "https://via.placeholder.com/50x50/e53e3e/ffffff?text=!"

func (r *Renderer) initialDecision(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("🕵️ HOLMES: Health Operations & Live Monitoring Expert System"),
			section(fmt.Sprintf("*First, verify in monitoring dashboards:*\n• %s\n• %s\n\n*What type of anomaly detected?*",
				link(r.dir.URL(config.URLMainDashboard), "Performance Monitoring Dashboard"),
				link(r.dir.URL(config.URLHealthDashboard), "Health Dashboard"))),
			buttons(
				button("select_revenue", "💰 Revenue/Spend Issue", slack.StyleDefault),
				button("select_traffic", "📊 Traffic Issue", slack.StyleDefault),
			),
			buttons(
				button("select_error", "⚠️ Error Rate Issue", slack.StyleDefault),
				button("select_latency", "🐌 Latency Issue", slack.StyleDefault),
			),
			buttons(
				button("select_discrepancy", "📋 Data Discrepancy", slack.StyleDefault),
			),
		},
		Text: "🕵️ HOLMES: Platform Investigation System",
	}
}

// alert renders the thread reply posted under a detected alert.
func alert(title, detectedLabel, body, startAction string, p Params) Message {
	if detectedLabel == "" {
		detectedLabel = "Unknown"
	}
	return Message{
		Blocks: []slack.Block{
			header(title),
			section(fmt.Sprintf("*Alert detected by:* %s\n*Time:* %s\n\n%s",
				mention(p.user()), slackDate(p.Timestamp), body)),
			buttons(button(startAction, "🔍 Start Investigation", slack.StylePrimary)),
		},
		Text: fmt.Sprintf("🕵️ HOLMES: %s alert detected - Investigation assistance available", detectedLabel),
	}
}

func (r *Renderer) alertRevenue(p Params) Message {
	body := fmt.Sprintf("*🎯 INVESTIGATION RECOMMENDED:*\n• Check %s\n• Review %s\n• Verify bidder capping system status",
		link(r.dir.URL(config.URLMainDashboard), "Performance Dashboard"),
		link(r.dir.URL(config.URLTemporalDashboard), "Temporal workflows"))
	return alert("🚨 HOLMES: Revenue Alert Detected", "Revenue", body, "start_revenue_investigation", p)
}

func (r *Renderer) alertTraffic(p Params) Message {
	body := fmt.Sprintf("*🎯 INVESTIGATION RECOMMENDED:*\n• Check %s\n• Review %s\n• Monitor bid request patterns",
		link(r.dir.URL(config.URLRolloutsAudit), "Rollouts audit"),
		link(r.dir.URL(config.URLSROUpdates), "SRO updates"))
	return alert("📊 HOLMES: Traffic Alert Detected", "Traffic", body, "start_traffic_investigation", p)
}

func (r *Renderer) alertErrors(p Params) Message {
	body := "*🎯 INVESTIGATION RECOMMENDED:*\n• Check infrastructure status\n• Review recent deployments\n• Monitor service health"
	return alert("⚠️ HOLMES: Error Rate Alert Detected", "Errors", body, "start_error_investigation", p)
}

// alertGeneral uses Label as the detected category title.
func (r *Renderer) alertGeneral(p Params) Message {
	body := "*🎯 INVESTIGATION AVAILABLE:*\nHOLMES can help investigate this alert."
	return alert("🕵️ HOLMES: Alert Detected", p.label(), body, "start_investigation", p)
}

// selection replaces the clicked message with a record of the choice.
func (r *Renderer) selection(p Params) Message {
	return Message{
		Blocks: []slack.Block{section(fmt.Sprintf("✅ %s selected: %s", mention(p.user()), p.label()))},
		Text:   "✅ User selected: " + p.label(),
	}
}

// investigationStarted takes a bare label, e.g. "Revenue Issue".
func (r *Renderer) investigationStarted(p Params) Message {
	return Message{
		Blocks: []slack.Block{section(fmt.Sprintf("🔍 %s started: *%s Investigation*", mention(p.user()), p.label()))},
		Text:   fmt.Sprintf("🔍 Investigation Started: *%s*", p.label()),
	}
}

func (r *Renderer) revenueOptions(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("💰 Revenue Issue Analysis"),
			section("*What kind of revenue behavior detected?*"),
			buttons(
				button("massive_overspend", "🔥 MASSIVE overspend (>$100K)", slack.StyleDanger),
				button("gradual_drop", "📉 Gradual revenue drop (10-30%)", slack.StyleDefault),
			),
		},
		Text: "Revenue Issue Investigation Options",
	}
}

func (r *Renderer) trafficOptions(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("📊 Traffic Issue Analysis"),
			section("*What kind of traffic anomaly detected?*"),
			buttons(
				button("ad_requests_drop", "📉 Ad requests dropping", slack.StyleDefault),
				button("bid_requests_drop", "🎯 Bid requests dropping", slack.StyleDefault),
			),
			buttons(
				button("sharp_bid_drop", "⚡ Sharp bid drop (10-15%)", slack.StyleDefault),
			),
		},
		Text: "Traffic Issue Investigation Options",
	}
}

func (r *Renderer) errorOptions(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("⚠️ Error Rate Issue Analysis"),
			section("*What kind of error pattern detected?*"),
			buttons(
				button("5xx_errors_dc", "🏗️ 5xx errors in specific DC", slack.StyleDefault),
				button("high_timeouts", "⏱️ High timeout rates", slack.StyleDefault),
			),
		},
		Text: "Error Rate Issue Investigation Options",
	}
}

func (r *Renderer) latencyOptions(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("🐌 Latency Issue Analysis"),
			section("*What kind of latency pattern detected?*"),
			buttons(
				button("latency_degradation_dc", "📈 35-50% degradation in specific DC", slack.StyleDefault),
				button("cross_dc_routing", "🌍 Cross-DC routing issues", slack.StyleDefault),
			),
		},
		Text: "Latency Issue Analysis Options",
	}
}

// steps renders a header followed by "started by" and an investigation body.
func steps(title, body, text string, p Params) Message {
	return Message{
		Blocks: []slack.Block{
			header(title),
			section(fmt.Sprintf("*Investigation started by:* %s\n\n%s", mention(p.user()), body)),
		},
		Text: text,
	}
}

func (r *Renderer) adRequestsSteps(p Params) Message {
	body := fmt.Sprintf("*📋 INVESTIGATION STEPS:*\n\n1️⃣ Check SDK integration status\n2️⃣ Verify app inventory settings\n3️⃣ Review mediation configuration\n4️⃣ Monitor partner response rates\n\n*🔗 Relevant Dashboards:*\n• %s\n• %s",
		link(r.dir.URL(config.URLMainDashboard), "Performance Dashboard"),
		link(r.dir.URL(config.URLHealthDashboard), "Health Dashboard"))
	return steps("📥 Ad Requests Dropping Investigation", body, "Ad Requests Investigation Steps", p)
}

func (r *Renderer) bidRequestsSteps(p Params) Message {
	body := "*INVESTIGATION STEPS:*\n• Check bid request filtering rules\n• Verify targeting parameters\n• Review exchange connectivity\n• Monitor bid response rates"
	return steps("🎯 Bid Requests Dropping Investigation", body, "Bid Requests Investigation Steps", p)
}

func (r *Renderer) sharpBidDrop(p Params) Message {
	baptiste := r.dir.Contact(config.ContactBaptistePoirier, "baptiste.poirier")
	nika := r.dir.Contact(config.ContactNikaKozhukh, "nika.kozhukh")
	return Message{
		Blocks: []slack.Block{
			header("📉 Sharp Bid Drop Investigation"),
			section(fmt.Sprintf("*Reported by:* %s\n*Time:* %s\n*Investigation:* HOLMES System",
				mention(p.user()), slackDate(p.Timestamp))),
			section(fmt.Sprintf("*🎯 PRIMARY SUSPECT:* SRO Model File Deployment Issues\n*🔍 COMMON CAUSES:* Naming errors in notebook files, incorrect model versions\n\n*⚡ INVESTIGATION STEPS:*\n• Check %s\n• Review %s\n• Verify notebook file versions\n\n*👥 NOTIFY:* %s %s",
				link(r.dir.URL(config.URLRolloutsAudit), "Rollouts audit"),
				link(r.dir.URL(config.URLSROUpdates), "SRO updates channel"),
				mention(baptiste), mention(nika))),
			buttons(
				button("sro_deploy_found", "✅ Found recent SRO deployment", slack.StyleDanger),
				button("no_sro_changes", "❓ No obvious SRO changes", slack.StyleDefault),
			),
		},
		Text: "📉 Sharp Bid Drop Investigation",
	}
}

// sharpBidStarted replaces the clicked message; Channel is where the
// investigation was posted.
func (r *Renderer) sharpBidStarted(p Params) Message {
	return Message{
		Blocks: []slack.Block{section(fmt.Sprintf("📉 *INVESTIGATION STARTED*\n\nPosted to %s channel\nHOLMES analysis initiated",
			channelLink(p.Channel, "the OKR")))},
		Text: "📉 Sharp Bid Drop investigation started",
	}
}

func (r *Renderer) highTimeoutsSteps(p Params) Message {
	body := "*PRIMARY SUSPECTS:*\n• Network connectivity issues\n• Backend service overload\n• Database connection timeouts\n\n*CHECK IMMEDIATELY:*\n• Service response times in monitoring\n• Database query performance\n• Network latency metrics\n• Load balancer configuration"
	return steps("⏱️ High Timeout Rates Investigation", body, "High Timeout Investigation Steps", p)
}

func (r *Renderer) errors5xxDCSteps(p Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("🏗️ 5xx Errors in DC Investigation"),
			section(fmt.Sprintf("*Investigation started by:* %s\n\n*🎯 PRIMARY SUSPECT:* Recent SDK feature activation without infrastructure in the affected DC\n\n*⚡ CHECK IMMEDIATELY:*\n• Analytics V2 status in the affected region\n• Infrastructure availability in the affected DC\n• %s",
				mention(p.user()), link(r.dir.URL(config.URLRolloutsAudit), "Recent rollouts"))),
			buttons(
				button("sdk_activation_found", "✅ Found recent SDK activation", slack.StyleDanger),
				button("no_sdk_changes", "❓ No obvious SDK changes", slack.StyleDefault),
			),
		},
		Text: "5xx Errors Investigation Steps",
	}
}

func (r *Renderer) latencyDegradationSteps(p Params) Message {
	body := "*INVESTIGATION STEPS:*\n• Check CPU and memory usage in affected DC\n• Verify network routing configuration\n• Review recent deployment changes\n• Monitor database connection pool status"
	return steps("📈 Latency Degradation Investigation", body, "Latency Degradation Investigation Steps", p)
}

func (r *Renderer) crossDCRoutingSteps(p Params) Message {
	body := "*INVESTIGATION STEPS:*\n• Check inter-DC network connectivity\n• Verify load balancer routing rules\n• Review DNS resolution times\n• Monitor cross-region latency metrics"
	return steps("🌍 Cross-DC Routing Issues Investigation", body, "Cross-DC Routing Investigation Steps", p)
}

func (r *Renderer) discrepancyAnalysis(Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("📋 Data Discrepancy Analysis"),
			section("Data discrepancy investigation started. Please check:\n• Revenue reporting differences\n• Analytics data consistency\n• Database synchronization issues"),
		},
		Text: "Data Discrepancy Analysis",
	}
}

func (r *Renderer) overspendSelected(p Params) Message {
	return Message{
		Blocks: []slack.Block{section(fmt.Sprintf("🚨 %s selected: *MASSIVE OVERSPEND (>$100K)*", mention(p.user())))},
		Text:   "⚠️ MASSIVE OVERSPEND Selected",
	}
}

func (r *Renderer) massiveOverspend(p Params) Message {
	return Message{
		Blocks: []slack.Block{
			header("🔥 CRITICAL: Massive Overspend Investigation"),
			section(fmt.Sprintf("*Investigator:* %s\n*Time:* %s\n\n*🎯 PRIMARY SUSPECT:* Bidder Capping System Failure\n*🔧 LIKELY CAUSE:* Druid Database unavailability\n\n*⚡ IMMEDIATE ACTIONS:*\n\n1️⃣ Check %s\n2️⃣ Verify Bidder settings in BM Dashboard\n3️⃣ Check Druid database status\n4️⃣ Monitor real-time spend\n\n*👥 ESCALATION REQUIRED:* Notify Exchange Revenue Ops team immediately!",
				mention(p.user()), slackDate(p.Timestamp),
				link(r.dir.URL(config.URLTemporalDashboard), "Temporal workflows"))),
		},
		Text: "🔥 CRITICAL: Massive Overspend Investigation",
	}
}

// criticalOverspend asks the investigator whether Druid is reachable.
func (r *Renderer) criticalOverspend(p Params) Message {
	ops := r.dir.Contact(config.ContactExchangeRevenueOps, "exchange_revenue_ops")
	return Message{
		Blocks: []slack.Block{
			header("🔥 CRITICAL: Massive Overspend (>$100K)"),
			section(fmt.Sprintf("*Reported by:* %s\n*Time:* %s\n*Investigation:* HOLMES System",
				mention(p.user()), slackDate(p.Timestamp))),
			section(fmt.Sprintf("*🎯 PRIMARY SUSPECT:* Bidder Capping System Failure\n*🔧 LIKELY CAUSE:* Druid Database unavailability\n\n*⚡ CHECK IMMEDIATELY:*\n• %s\n• Bidder settings in BM Dashboard\n• Druid database status\n\n*👥 ESCALATION:* %s",
				link(r.dir.URL(config.URLTemporalDashboard), "Temporal workflows"), mention(ops))),
			buttons(
				button("druid_check_yes", "✅ Druid is Available", slack.StylePrimary),
				button("druid_check_no", "❌ Druid is Down/Unavailable", slack.StyleDanger),
			),
		},
		Text: "🔥 CRITICAL: Massive Overspend (>$100K)",
	}
}

func (r *Renderer) gradualDropSteps(p Params) Message {
	body := fmt.Sprintf("*🎯 PRIMARY SUSPECTS:*\n• Demand partner budget or pacing changes\n• Floor price or auction configuration changes\n• Gradual traffic mix shift\n\n*CHECK:*\n• %s\n• %s\n• Revenue trend per demand partner",
		link(r.dir.URL(config.URLMainDashboard), "Performance Dashboard"),
		link(r.dir.URL(config.URLOBDDashboard), "OBD dashboard"))
	return steps("📉 Gradual Revenue Drop Investigation", body, "Gradual Revenue Drop Investigation Steps", p)
}

// incidentAlert is cross-posted to the incidents channel; Channel is the
// conversation holding the investigation thread.
func (r *Renderer) incidentAlert(p Params) Message {
	return Message{
		Blocks: []slack.Block{section(fmt.Sprintf("🚨 *CRITICAL INCIDENT ALERT*\n\n*Reported by:* %s\n*Type:* Massive Overspend (>$100K)\n*Investigation:* In progress\n\n*See thread for details:* %s",
			mention(p.user()), p.channel()))},
		Text: fmt.Sprintf("🚨 CRITICAL INCIDENT: Massive Overspend Detected by %s", mention(p.user())),
	}
}

func (r *Renderer) druidUnavailable(Params) Message {
	return Message{
		Blocks: []slack.Block{
			sectionWithImage("🔥 *CRITICAL ACTION REQUIRED*\n\n*ROOT CAUSE CONFIRMED:* Druid Database Unavailable\n*BIDDER CAPPING SYSTEM OFFLINE*",
				criticalImageURL, "Critical"),
			section("*⚡ IMMEDIATE ACTIONS:*\n1. 🛑 *Manually disable affected bidder in BM Dashboard*\n2. 📞 *Contact DevOps team to restore Druid*\n3. 📊 *Monitor spend in real-time*\n4. 📝 *Document total overspend amount*\n\n*📋 FOLLOW-UP:*\n• Implement real-time billing events pipeline\n• Review Druid SLA and backup procedures"),
		},
		Text: "🔥 CRITICAL: Druid Database Unavailable",
	}
}

func (r *Renderer) druidAvailable(Params) Message {
	ops := r.dir.Contact(config.ContactExchangeRevenueOps, "exchange_revenue_ops")
	return Message{
		Blocks: []slack.Block{
			section("✅ *DRUID IS AVAILABLE*\n\n*NEXT SUSPECT:* Bidder capping workflow failure"),
			section(fmt.Sprintf("*⚡ NEXT STEPS:*\n1. 🔍 *Check failed runs in %s*\n2. ⚙️ *Verify bidder budget caps in BM Dashboard*\n3. 📊 *Monitor spend in real-time*\n\n*👥 ESCALATION:* %s",
				link(r.dir.URL(config.URLTemporalDashboard), "Temporal workflows"), mention(ops))),
		},
		Text: "Druid available, checking capping workflows",
	}
}

func (r *Renderer) sroDeployFound(Params) Message {
	baptiste := r.dir.Contact(config.ContactBaptistePoirier, "baptiste.poirier")
	nika := r.dir.Contact(config.ContactNikaKozhukh, "nika.kozhukh")
	return Message{
		Blocks: []slack.Block{
			section("📉 *SRO DEPLOYMENT ISSUE CONFIRMED*\n\n*ROOT CAUSE:* Recent SRO model file deployment"),
			section(fmt.Sprintf("*⚡ IMMEDIATE ACTIONS:*\n1. 🔄 *Rollback SRO file to previous version*\n2. 📊 *Monitor bid request recovery*\n3. 🔍 *Check notebook file naming for errors*\n\n*👥 NOTIFY:* %s %s\n*📍 CHECK:* %s",
				mention(baptiste), mention(nika), link(r.dir.URL(config.URLSROUpdates), "SRO Updates Channel"))),
		},
		Text: "📉 SRO deployment issue confirmed",
	}
}

func (r *Renderer) noSROChanges(Params) Message {
	return Message{
		Blocks: []slack.Block{
			section("❓ *NO OBVIOUS SRO CHANGES*\n\n*NEXT SUSPECTS:* Exchange connectivity or demand partner behavior"),
			section(fmt.Sprintf("*⚡ NEXT STEPS:*\n1. 🔍 *Review %s for other recent changes*\n2. 🌐 *Check exchange connectivity per DC*\n3. 📊 *Compare bid rates per demand partner*",
				link(r.dir.URL(config.URLRolloutsAudit), "Rollouts audit"))),
		},
		Text: "No obvious SRO changes",
	}
}

func (r *Renderer) sdkActivationFound(Params) Message {
	sergei := r.dir.Contact(config.ContactSergeiSmirnov, "sergei.smirnov")
	celine := r.dir.Contact(config.ContactCelineTran, "celine.tran")
	return Message{
		Blocks: []slack.Block{
			section("🏗️ *SDK FEATURE ISSUE CONFIRMED*\n\n*ROOT CAUSE:* Recent SDK feature activation without proper infrastructure"),
			section(fmt.Sprintf("*⚡ IMMEDIATE ACTIONS:*\n1. 🛑 *Disable new SDK features immediately*\n2. 🔍 *Check Analytics V2 status in affected region*\n3. 📊 *Monitor error rate recovery*\n\n*👥 CONTACTS:* %s %s\n*📍 VERIFY:* Infrastructure availability in affected DC",
				mention(sergei), mention(celine))),
		},
		Text: "🏗️ SDK feature issue confirmed",
	}
}

func (r *Renderer) noSDKChanges(Params) Message {
	return Message{
		Blocks: []slack.Block{
			section("❓ *NO OBVIOUS SDK CHANGES*\n\n*NEXT SUSPECTS:* Infrastructure failure in the affected DC"),
			section(fmt.Sprintf("*⚡ NEXT STEPS:*\n1. 🔍 *Check %s*\n2. 📞 *Contact DevOps in %s*\n3. 📊 *Monitor 5xx rate per DC*",
				link(r.dir.URL(config.URLHealthDashboard), "Health Dashboard"),
				channelLink(r.dir.Channel(config.ChannelDevOps), "the DevOps channel"))),
		},
		Text: "No obvious SDK changes",
	}
}

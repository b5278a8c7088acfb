package actions

// Kind is the closed set of interactive action identifiers HOLMES knows.
// Button payloads are parsed into a Kind once, at the edge; everything past
// that point switches on the enum instead of comparing strings.
type Kind int

const (
	KindUnknown Kind = iota

	KindSelectRevenue
	KindSelectTraffic
	KindSelectError
	KindSelectLatency
	KindSelectDiscrepancy

	KindStartRevenueInvestigation
	KindStartTrafficInvestigation
	KindStartErrorInvestigation
	KindStartInvestigation

	KindMassiveOverspend
	KindGradualDrop
	KindDruidCheckYes
	KindDruidCheckNo

	KindAdRequestsDrop
	KindBidRequestsDrop
	KindSharpBidDrop
	KindSRODeployFound
	KindNoSROChanges

	Kind5xxErrorsDC
	KindHighTimeouts
	KindSDKActivationFound
	KindNoSDKChanges

	KindLatencyDegradationDC
	KindCrossDCRouting

	kindCount
)

var kindIDs = [kindCount]string{
	KindUnknown:                   "",
	KindSelectRevenue:             "select_revenue",
	KindSelectTraffic:             "select_traffic",
	KindSelectError:               "select_error",
	KindSelectLatency:             "select_latency",
	KindSelectDiscrepancy:         "select_discrepancy",
	KindStartRevenueInvestigation: "start_revenue_investigation",
	KindStartTrafficInvestigation: "start_traffic_investigation",
	KindStartErrorInvestigation:   "start_error_investigation",
	KindStartInvestigation:        "start_investigation",
	KindMassiveOverspend:          "massive_overspend",
	KindGradualDrop:               "gradual_drop",
	KindDruidCheckYes:             "druid_check_yes",
	KindDruidCheckNo:              "druid_check_no",
	KindAdRequestsDrop:            "ad_requests_drop",
	KindBidRequestsDrop:           "bid_requests_drop",
	KindSharpBidDrop:              "sharp_bid_drop",
	KindSRODeployFound:            "sro_deploy_found",
	KindNoSROChanges:              "no_sro_changes",
	Kind5xxErrorsDC:               "5xx_errors_dc",
	KindHighTimeouts:              "high_timeouts",
	KindSDKActivationFound:        "sdk_activation_found",
	KindNoSDKChanges:              "no_sdk_changes",
	KindLatencyDegradationDC:      "latency_degradation_dc",
	KindCrossDCRouting:            "cross_dc_routing",
}

var kindsByID = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindIDs[k]] = k
	}
	return m
}()

// ParseKind maps an action identifier to its Kind, or KindUnknown.
func ParseKind(id string) Kind {
	return kindsByID[id]
}

// ID returns the wire identifier used as the button action_id.
func (k Kind) ID() string {
	if k <= KindUnknown || k >= kindCount {
		return ""
	}
	return kindIDs[k]
}

func (k Kind) String() string {
	if id := k.ID(); id != "" {
		return id
	}
	return "unknown"
}

// Known reports whether k is a valid, non-unknown kind.
func (k Kind) Known() bool {
	return k > KindUnknown && k < kindCount
}

// AllKinds returns every known kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

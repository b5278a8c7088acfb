package actions

import (
	"holmes/internal/config"
	"holmes/internal/render"
)

// RevenueHandler opens the revenue branch of the decision tree.
type RevenueHandler struct {
	render *render.Renderer
}

func NewRevenueHandler(r *render.Renderer) *RevenueHandler {
	return &RevenueHandler{render: r}
}

func (h *RevenueHandler) Description() string { return "Handle revenue/spend issue selection" }

func (h *RevenueHandler) Kinds() []Kind {
	return []Kind{KindSelectRevenue, KindStartRevenueInvestigation}
}

func (h *RevenueHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	switch inv.Kind {
	case KindSelectRevenue:
		b.selected("*Revenue/Spend Issue*")
	case KindStartRevenueInvestigation:
		b.started("Revenue Issue")
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.thread(render.RevenueOptions, inv.params()).done()
}

// TrafficHandler covers traffic selection and its sub-investigations.
type TrafficHandler struct {
	render *render.Renderer
	dir    *config.Directory
}

func NewTrafficHandler(r *render.Renderer, dir *config.Directory) *TrafficHandler {
	return &TrafficHandler{render: r, dir: dir}
}

func (h *TrafficHandler) Description() string {
	return "Handle traffic issue selection and investigations"
}

func (h *TrafficHandler) Kinds() []Kind {
	return []Kind{
		KindSelectTraffic,
		KindStartTrafficInvestigation,
		KindAdRequestsDrop,
		KindBidRequestsDrop,
		KindSharpBidDrop,
	}
}

func (h *TrafficHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	p := inv.params()

	switch inv.Kind {
	case KindSelectTraffic:
		b.selected("*Traffic Issue*").thread(render.TrafficOptions, p)
	case KindStartTrafficInvestigation:
		b.started("Traffic Issue").thread(render.TrafficOptions, p)
	case KindAdRequestsDrop:
		b.selected("*Ad Requests Dropping*").thread(render.AdRequestsSteps, p)
	case KindBidRequestsDrop:
		b.selected("*Bid Requests Dropping*").thread(render.BidRequestsSteps, p)
	case KindSharpBidDrop:
		// The investigation lives in the OKR channel; the clicked message
		// becomes a pointer to it.
		okr := h.dir.Channel(config.ChannelOKR)
		if okr == "" {
			b.thread(render.SharpBidDrop, p)
			okr = inv.ChannelID
		} else {
			b.post(okr, render.SharpBidDrop, p)
		}
		started := p
		started.Channel = okr
		b.update(render.SharpBidStarted, started)
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.done()
}

// ErrorRateHandler covers error-rate selection, its sub-investigations and
// the SDK root-cause confirmation.
type ErrorRateHandler struct {
	render *render.Renderer
}

func NewErrorRateHandler(r *render.Renderer) *ErrorRateHandler {
	return &ErrorRateHandler{render: r}
}

func (h *ErrorRateHandler) Description() string {
	return "Handle error rate issue selection and investigations"
}

func (h *ErrorRateHandler) Kinds() []Kind {
	return []Kind{
		KindSelectError,
		KindStartErrorInvestigation,
		Kind5xxErrorsDC,
		KindHighTimeouts,
		KindSDKActivationFound,
		KindNoSDKChanges,
	}
}

func (h *ErrorRateHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	p := inv.params()

	switch inv.Kind {
	case KindSelectError:
		b.selected("*Error Rate Issue*").thread(render.ErrorOptions, p)
	case KindStartErrorInvestigation:
		b.started("Error Rate Issue").thread(render.ErrorOptions, p)
	case Kind5xxErrorsDC:
		b.selected("*5xx Errors in Specific DC*").thread(render.Errors5xxDCSteps, p)
	case KindHighTimeouts:
		b.selected("*High Timeout Rates*").thread(render.HighTimeoutsSteps, p)
	case KindSDKActivationFound:
		b.update(render.SDKActivationFound, p)
	case KindNoSDKChanges:
		b.update(render.NoSDKChanges, p)
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.done()
}

// LatencyHandler covers latency selection and its sub-investigations.
type LatencyHandler struct {
	render *render.Renderer
}

func NewLatencyHandler(r *render.Renderer) *LatencyHandler {
	return &LatencyHandler{render: r}
}

func (h *LatencyHandler) Description() string {
	return "Handle latency issue selection and investigations"
}

func (h *LatencyHandler) Kinds() []Kind {
	return []Kind{KindSelectLatency, KindLatencyDegradationDC, KindCrossDCRouting}
}

func (h *LatencyHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	p := inv.params()

	switch inv.Kind {
	case KindSelectLatency:
		b.selected("*Latency Issue*").thread(render.LatencyOptions, p)
	case KindLatencyDegradationDC:
		b.selected("*Latency Degradation in DC*").thread(render.LatencyDegradationSteps, p)
	case KindCrossDCRouting:
		b.selected("*Cross-DC Routing Issues*").thread(render.CrossDCRoutingSteps, p)
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.done()
}

// DiscrepancyHandler handles data discrepancy selection.
type DiscrepancyHandler struct {
	render *render.Renderer
}

func NewDiscrepancyHandler(r *render.Renderer) *DiscrepancyHandler {
	return &DiscrepancyHandler{render: r}
}

func (h *DiscrepancyHandler) Description() string { return "Handle data discrepancy selection" }

func (h *DiscrepancyHandler) Kinds() []Kind { return []Kind{KindSelectDiscrepancy} }

func (h *DiscrepancyHandler) Handle(inv Invocation) ([]Reply, error) {
	if inv.Kind != KindSelectDiscrepancy {
		return nil, unexpectedKind(h, inv.Kind)
	}
	return newReplies(h.render, inv).
		selected("*Data Discrepancy*").
		thread(render.DiscrepancyAnalysis, inv.params()).
		done()
}

// GeneralHandler restarts the decision tree from an uncategorized alert.
type GeneralHandler struct {
	render *render.Renderer
}

func NewGeneralHandler(r *render.Renderer) *GeneralHandler {
	return &GeneralHandler{render: r}
}

func (h *GeneralHandler) Description() string { return "Start a general HOLMES investigation" }

func (h *GeneralHandler) Kinds() []Kind { return []Kind{KindStartInvestigation} }

func (h *GeneralHandler) Handle(inv Invocation) ([]Reply, error) {
	if inv.Kind != KindStartInvestigation {
		return nil, unexpectedKind(h, inv.Kind)
	}
	return newReplies(h.render, inv).
		started("HOLMES").
		thread(render.InitialDecision, inv.params()).
		done()
}

// OverspendHandler runs the revenue sub-investigations, including the
// critical overspend incident and its Druid check.
type OverspendHandler struct {
	render *render.Renderer
	dir    *config.Directory
}

func NewOverspendHandler(r *render.Renderer, dir *config.Directory) *OverspendHandler {
	return &OverspendHandler{render: r, dir: dir}
}

func (h *OverspendHandler) Description() string {
	return "Handle revenue behavior investigations"
}

func (h *OverspendHandler) Kinds() []Kind {
	return []Kind{KindMassiveOverspend, KindGradualDrop, KindDruidCheckYes, KindDruidCheckNo}
}

func (h *OverspendHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	p := inv.params()

	switch inv.Kind {
	case KindMassiveOverspend:
		b.update(render.OverspendSelected, p).
			thread(render.MassiveOverspend, p).
			thread(render.CriticalOverspend, p)
		if incidents := h.dir.Channel(config.ChannelIncidents); incidents != "" {
			alert := p
			alert.Channel = inv.ChannelID
			b.post(incidents, render.IncidentAlert, alert)
		}
	case KindGradualDrop:
		b.selected("*Gradual Revenue Drop*").thread(render.GradualDropSteps, p)
	case KindDruidCheckYes:
		b.update(render.DruidAvailable, p)
	case KindDruidCheckNo:
		b.update(render.DruidUnavailable, p)
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.done()
}

// SROHandler resolves the sharp bid drop investigation.
type SROHandler struct {
	render *render.Renderer
}

func NewSROHandler(r *render.Renderer) *SROHandler {
	return &SROHandler{render: r}
}

func (h *SROHandler) Description() string { return "Handle SRO deployment findings" }

func (h *SROHandler) Kinds() []Kind { return []Kind{KindSRODeployFound, KindNoSROChanges} }

func (h *SROHandler) Handle(inv Invocation) ([]Reply, error) {
	b := newReplies(h.render, inv)
	switch inv.Kind {
	case KindSRODeployFound:
		b.update(render.SRODeployFound, inv.params())
	case KindNoSROChanges:
		b.update(render.NoSROChanges, inv.params())
	default:
		return nil, unexpectedKind(h, inv.Kind)
	}
	return b.done()
}

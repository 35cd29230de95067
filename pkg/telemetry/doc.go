// Package telemetry exports drag activity to Prometheus and OpenTelemetry.
//
// Both exporters attach to a coordinator as ordinary observers, so they see
// exactly the transitions the containers see:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("board"))
//	tr := telemetry.NewTracer()
//	view := dnd.NewView(dnd.WithHooks(m))
//	defer m.Observe(view.Coordinator())()
//	defer tr.Observe(ctx, view.Coordinator())()
package telemetry

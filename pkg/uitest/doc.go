// Package uitest provides helpers for testing the Bubble Tea components of
// the dashboard with teatest.
//
// Models whose Update returns their concrete type are wrapped by
// [NewTestModel]; output is awaited with [WaitFor] and matched with
// [Contains]:
//
//	tm := uitest.NewTestModel(t, table.New(...), uitest.Standard)
//	uitest.WaitFor(t, tm.Output(), uitest.Contains("Maria Oliveira"))
package uitest

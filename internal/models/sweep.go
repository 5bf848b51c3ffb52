package models

// SweepResult counts the records one sweep job looked at
type SweepResult struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Add merges o into r
func (r *SweepResult) Add(o SweepResult) {
	r.Processed += o.Processed
	r.Succeeded += o.Succeeded
	r.Failed += o.Failed
}

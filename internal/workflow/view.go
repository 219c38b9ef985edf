package workflow

// View is the discriminated UI mode for one principal's session
type View string

const (
	ViewAuth      View = "auth"
	ViewDashboard View = "dashboard"
	ViewHistory   View = "history"
)

// ValidView reports whether v is a known view
func ValidView(v View) bool {
	switch v {
	case ViewAuth, ViewDashboard, ViewHistory:
		return true
	}
	return false
}

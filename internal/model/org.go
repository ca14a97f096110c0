package model

// Org is a tenant organization as seen by this engine: just enough to
// derive discovery tuples and read listing coverage. Lifecycle and the
// rest of the tenant record belong to the platform, not to this core.
type Org struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	PlanTier string    `json:"plan_tier"`
	Location *Location `json:"location,omitempty"`
}

// Location is a tenant's primary business location.
type Location struct {
	City       string   `json:"city"`
	State      string   `json:"state"`
	Categories []string `json:"categories"`
}

package dto

// DashboardResponse contadores del tablero principal.
// Issues agrupa los envíos con problema (dañados + extraviados).
type DashboardResponse struct {
	Total    int `json:"total"`
	Sent     int `json:"sent"`
	Received int `json:"received"`
	Issues   int `json:"issues"`

	// Desglose exacto por estado, incluido cualquier estado sin envíos (0).
	ByStatus map[string]int `json:"by_status"`
}

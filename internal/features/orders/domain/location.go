package domain

// Location is a depot or customer site.
type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Province    string  `json:"province"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	PostalCode  string  `json:"postal_code"`
	IsDC        bool    `json:"is_dc"`
	DCID        *int64  `json:"dc_id"`
	CustomerID  *int64  `json:"customer_id"`
	OpenHour    string  `json:"open_hour"`
	CloseHour   string  `json:"close_hour"`
	ServiceTime int     `json:"service_time"`
}

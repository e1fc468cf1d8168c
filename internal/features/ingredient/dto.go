package ingredient

// Responses

type StockLevelDTO struct {
	Ingredient
	RunningLow bool `json:"running_low"`
}

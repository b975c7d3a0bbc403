package model

// TechnicalIndicators is the per-cycle indicator snapshot for one symbol.
// It is recomputed on every analysis cycle and never persisted on its own;
// the generated signal embeds a copy.
type TechnicalIndicators struct {
	RSI               float64           `json:"rsi"`
	MACD              float64           `json:"macd"`
	MovingAverages    MovingAverages    `json:"moving_averages"`
	SupportResistance SupportResistance `json:"support_resistance"`
	BollingerBands    BollingerBands    `json:"bollinger_bands"`
	Momentum          float64           `json:"momentum"`
	Volatility        float64           `json:"volatility"`
}

type MovingAverages struct {
	MA20  float64 `json:"ma20"`
	MA50  float64 `json:"ma50"`
	MA200 float64 `json:"ma200"`
}

type SupportResistance struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

type BollingerBands struct {
	Upper   float64 `json:"upper"`
	Middle  float64 `json:"middle"`
	Lower   float64 `json:"lower"`
	Squeeze bool    `json:"squeeze"`
}

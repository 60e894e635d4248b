package types

type IndicatorType string

const (
	IndicatorTypeRSI                   IndicatorType = "rsi"
	IndicatorTypeMACD                  IndicatorType = "macd"
	IndicatorTypeBollingerBands        IndicatorType = "bollinger_bands"
	IndicatorTypeStochasticOsciallator IndicatorType = "stochastic_oscillator"
	IndicatorTypeEMA                   IndicatorType = "ema"
	IndicatorTypeMA                    IndicatorType = "ma"
	IndicatorTypeVolumeMA              IndicatorType = "volume_ma"
	IndicatorTypeOBV                   IndicatorType = "obv"
)

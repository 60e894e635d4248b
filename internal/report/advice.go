package report

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// AdviceListN is the number of top-ranked signals whose latest reading is listed.
const AdviceListN = 5

// AdviceTopN is the number of top-ranked signals the verdict is taken over.
const AdviceTopN = 3

// minAgreeing is the number of top signals that must agree on a direction.
const minAgreeing = 2

// Recommend reads a single signal value.
func Recommend(value int) types.Recommendation {
	switch {
	case value > 0:
		return types.RecommendationBuy
	case value < 0:
		return types.RecommendationSell
	default:
		return types.RecommendationHold
	}
}

// Advise reads the latest value of the first AdviceListN ranked signals and takes a majority
// verdict over the first AdviceTopN of them. The verdict is buy when at least two of them read
// buy and buys outnumber sells. Sell is symmetric. Anything else is hold.
func Advise(frame *types.Frame, ranked []string) (types.Advice, error) {
	advice := types.Advice{Verdict: types.RecommendationHold}

	if frame.Len() == 0 {
		return advice, nil
	}

	last := frame.Len() - 1
	advice.Date = frame.Bars()[last].Time

	if len(ranked) > AdviceListN {
		ranked = ranked[:AdviceListN]
	}

	buys, sells := 0, 0

	for i, name := range ranked {
		series, err := frame.Signal(name)
		if err != nil {
			return types.Advice{}, err
		}

		value := series.Values[last]
		recommendation := Recommend(value)

		advice.Signals = append(advice.Signals, types.CurrentSignal{
			Signal:         name,
			Value:          value,
			Recommendation: recommendation,
		})

		if i >= AdviceTopN {
			continue
		}

		switch recommendation {
		case types.RecommendationBuy:
			buys++
		case types.RecommendationSell:
			sells++
		case types.RecommendationHold:
		}
	}

	switch {
	case buys > sells && buys >= minAgreeing:
		advice.Verdict = types.RecommendationBuy
	case sells > buys && sells >= minAgreeing:
		advice.Verdict = types.RecommendationSell
	}

	return advice, nil
}

package dashboard

// Palette cycles over the bars of the category chart.
var Palette = []string{"#4CAF50", "#2196F3", "#FFC107", "#F44336"}

// ChartDataset is one series of the bar chart.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
	BorderWidth     int      `json:"borderWidth"`
}

// BarChart is the distribution of tickets per category, labels in discovery order.
type BarChart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// BuildChart builds the per-category bar chart.
func BuildChart(present []CategoryCount) BarChart {
	labels := make([]string, 0, len(present))
	data := make([]int, 0, len(present))
	colors := make([]string, 0, len(present))
	for i, p := range present {
		labels = append(labels, p.Label)
		data = append(data, p.Count)
		colors = append(colors, Palette[i%len(Palette)])
	}
	return BarChart{
		Labels: labels,
		Datasets: []ChartDataset{{
			Label:           "Tickets",
			Data:            data,
			BackgroundColor: colors,
			BorderWidth:     1,
		}},
	}
}

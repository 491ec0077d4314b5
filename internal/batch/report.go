package batch

import "fmt"

// Item pairs a request with its result.
type Item struct {
	Request Request `json:"request"`
	Result  Result  `json:"result"`
}

// Report is an executed batch in request order. It deliberately has no
// overall success flag; callers decide what a partial failure means.
type Report struct {
	Items []Item `json:"items"`
}

// Aggregate zips requests with results. A length mismatch is a programming
// error and is returned rather than truncated.
func Aggregate(reqs []Request, results []Result) (Report, error) {
	if len(reqs) != len(results) {
		return Report{}, fmt.Errorf("aggregating batch: %d requests but %d results", len(reqs), len(results))
	}
	items := make([]Item, len(reqs))
	for i := range reqs {
		items[i] = Item{Request: reqs[i], Result: results[i]}
	}
	return Report{Items: items}, nil
}

// Results returns the results in order.
func (r Report) Results() []Result {
	out := make([]Result, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Result
	}
	return out
}

// Failed returns the items whose result did not succeed.
func (r Report) Failed() []Item {
	var out []Item
	for _, it := range r.Items {
		if !it.Result.Success {
			out = append(out, it)
		}
	}
	return out
}

// Succeeded returns the items whose result succeeded.
func (r Report) Succeeded() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Result.Success {
			out = append(out, it)
		}
	}
	return out
}

// IDs returns the entry ids of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Request.EntryID
	}
	return ids
}

package graph

// ProductAll is the product code of a view aggregated across products.
const ProductAll = "ALL"

// Edge is one harmonized directed trade flow. For a given
// (From, To, Period, Product) at most one edge exists; the network
// builder merges duplicates before the index ever sees them.
type Edge struct {
	From    string
	To      string
	Period  string
	Product string

	// Weight is the trade expenditure on this flow. Zero is a recorded
	// but null flow: it keeps both endpoints in the graph without
	// contributing to any weighted metric.
	Weight float64

	// Quantity is the traded quantity when the dataset carries one,
	// zero otherwise. Weight/Quantity gives a unit price.
	Quantity float64
}

// Neighbor is one adjacency entry: the node at the other end of a
// directed edge together with the edge's weight and quantity.
type Neighbor struct {
	Node     string
	Weight   float64
	Quantity float64
}

package graphql

// Schema is the read-only back-office query surface.
const Schema = `
	schema {
		query: Query
	}

	type Query {
		products(search: String, category: String, status: String, sort: String, page: Int, limit: Int): ProductPage!
		product(sku: String!): Product
		stockStats(startDate: String, endDate: String): StockStats!
		search(query: String!, page: Int, limit: Int): SearchResult!
		extension(name: String!, argsJson: String): String!
	}

	type ProductPage {
		total: Int!
		items: [Product!]!
	}

	type Product {
		id: ID!
		title: String!
		description: String!
		category: String!
		status: String!
		type: String!
		stock: Int!
		images: [String!]!
		variants: [Variant!]!
	}

	type Variant {
		id: ID!
		sku: String!
		optionName: String!
		price: Float!
		defaultCost: Float!
		stockQty: Int!
		isBundle: Boolean!
	}

	type StockStats {
		totalIn: Int!
		totalOut: Int!
		totalAdjustAdd: Int!
		totalAdjustSub: Int!
		totalReturn: Int!
		incoming: Int!
		outgoing: Int!
		net: Int!
	}

	type SearchResult {
		total: Int!
		hits: [SearchHit!]!
	}

	type SearchHit {
		id: ID!
		title: String!
		sku: String!
		category: String!
		status: String!
		stock: Int!
		price: Float!
	}
`

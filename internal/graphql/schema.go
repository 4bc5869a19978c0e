package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const schemaSDL = `
"Arbitrary-precision decimal. Outputs are strings with two decimals; inputs accept strings or numbers."
scalar Decimal

"A coordinate: a \"(lng,lat)\" string, an {x, y} object or a [lng, lat] pair."
scalar Point

enum QuoteStatus {
  "The order was priced."
  OK
  "Inputs are incomplete, e.g. no address yet. Show a pending state."
  PENDING
  "The rate configuration cannot price this order."
  CONFIG_GAP
}

type Query {
  health: String!
  profiles: [String!]!
  zones(profile: String): [Zone!]!
  packagingBoxes: [PackagingBox!]!
  distance(a: Point, b: Point): Float
  shippingQuote(input: ShippingQuoteInput!): ShippingQuoteResult!
  shippingQuotes(input: ShippingQuoteInput!): ShippingQuotesResult!
  orderTotals(input: ShippingQuoteInput!): OrderTotals!
  bundleAllocation(input: BundleAllocationInput!): [ComponentDiscount!]!
}

input PhysicalInput {
  weight: String
  dimensions: String
  volume: Float
}

input CartLineInput {
  productId: ID!
  variantId: ID
  name: String
  unitPrice: Decimal!
  quantity: Int!
  physical: PhysicalInput
  gstRate: Float
  bundleDiscount: Decimal
}

input DestinationInput {
  city: String
  location: Point
}

input ShippingQuoteInput {
  lines: [CartLineInput!]!
  destination: DestinationInput
  "Skips distance resolution when set."
  distanceKm: Float
  profile: String
  "Rejects unparsable catalog weights and dimensions instead of counting them as zero."
  strict: Boolean
}

input BundleComponentInput {
  productId: ID!
  price: Decimal!
}

input BundleAllocationInput {
  components: [BundleComponentInput!]!
  discount: Decimal!
}

type PackagingBox {
  id: ID!
  name: String!
  length: Float!
  width: Float!
  height: Float!
  volume: Float!
  maxWeight: Float
}

type RateSlab {
  label: String!
  maxWeight: Float!
  baseCost: Decimal!
  overageRate: Decimal
}

type Zone {
  key: String!
  maxDistanceKm: Float!
  slabs: [RateSlab!]!
}

type ShippingCost {
  quoteId: ID!
  profile: String!
  totalCost: Decimal!
  baseCost: Decimal!
  extraCost: Decimal!
  currency: String!
  box: PackagingBox!
  oversized: Boolean!
  actualWeight: Float!
  volumetricWeight: Float!
  chargeableWeight: Float!
  totalVolume: Float!
  slabLabel: String!
  zoneKey: String!
  distanceKm: Float!
  distanceSource: String
  warnings: [String!]!
}

type QuoteError {
  profile: String
  code: String!
  message: String!
  zone: String
}

type ShippingQuoteResult {
  status: QuoteStatus!
  cost: ShippingCost
  error: QuoteError
}

type ShippingQuotesResult {
  quotes: [ShippingCost!]!
  errors: [QuoteError!]!
}

type OrderTotals {
  subtotal: Decimal!
  discountTotal: Decimal!
  taxTotal: Decimal!
  shippingCost: Decimal
  grandTotal: Decimal!
  shippingResolved: Boolean!
  shipping: ShippingQuoteResult!
}

type ComponentDiscount {
  productId: ID!
  price: Decimal!
  discount: Decimal!
}
`

// Schema is the parsed service schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})

package services

// UnitOption is one choice of the product unit picker.
type UnitOption struct {
	Value UnitKind
	Label string
}

// UnitOptions lists the units a product can be sold in.
var UnitOptions = []UnitOption{
	{Value: UnitPiece, Label: "Piece"},
	{Value: UnitLength, Label: "Meter"},
}

package domain

type VariantKind string

const (
	VariantStandard      VariantKind = "standard"
	VariantBounty        VariantKind = "bounty"
	VariantChampion      VariantKind = "champion"
	VariantDiamondSeals  VariantKind = "diamond_seals"
	VariantSapphireSeals VariantKind = "sapphire_seals"
	VariantEmeraldSeals  VariantKind = "emerald_seals"
	VariantAurulite      VariantKind = "aurulite"
)

type BuyPolicy int

const (
	BuyAllowed BuyPolicy = iota
	// BuyDisabled refuses every purchase. Champion merchants used to gate
	// purchases by champion level; that gate is switched off until the rank
	// rules are settled.
	BuyDisabled
)

// Allows reports whether a purchase of quantity items from slot is permitted.
func (p BuyPolicy) Allows(slot, quantity int) bool {
	switch p {
	case BuyAllowed:
		return true
	default:
		return false
	}
}

// Currency template identifiers bound by count merchants.
const (
	CurrencyDiamondSeal  = "dias"
	CurrencySapphireSeal = "saphir"
	CurrencyEmeraldSeal  = "smaras"
	CurrencyAurulite     = "aurulite"
)

// Variant is the behavior set of a merchant subtype.
type Variant struct {
	Kind             VariantKind
	ClassType        string
	Window           WindowKind
	BuyPolicy        BuyPolicy
	CurrencyTemplate string
}

// RequiresCurrency reports whether the variant must bind a currency item when
// it enters the world.
func (v Variant) RequiresCurrency() bool {
	return v.CurrencyTemplate != ""
}

var variants = []Variant{
	{Kind: VariantStandard, ClassType: "merchant.Standard", Window: WindowNormal, BuyPolicy: BuyAllowed},
	{Kind: VariantBounty, ClassType: "merchant.Bounty", Window: WindowBountyPoints, BuyPolicy: BuyAllowed},
	{Kind: VariantChampion, ClassType: "merchant.Champion", Window: WindowNormal, BuyPolicy: BuyDisabled},
	{Kind: VariantDiamondSeals, ClassType: "merchant.DiamondSeals", Window: WindowCount, BuyPolicy: BuyAllowed, CurrencyTemplate: CurrencyDiamondSeal},
	{Kind: VariantSapphireSeals, ClassType: "merchant.SapphireSeals", Window: WindowCount, BuyPolicy: BuyAllowed, CurrencyTemplate: CurrencySapphireSeal},
	{Kind: VariantEmeraldSeals, ClassType: "merchant.EmeraldSeals", Window: WindowCount, BuyPolicy: BuyAllowed, CurrencyTemplate: CurrencyEmeraldSeal},
	{Kind: VariantAurulite, ClassType: "merchant.Aurulite", Window: WindowCount, BuyPolicy: BuyAllowed, CurrencyTemplate: CurrencyAurulite},
}

func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

func VariantByKind(kind VariantKind) (Variant, bool) {
	for _, v := range variants {
		if v.Kind == kind {
			return v, true
		}
	}
	return Variant{}, false
}

func VariantByClassType(classType string) (Variant, bool) {
	for _, v := range variants {
		if v.ClassType == classType {
			return v, true
		}
	}
	return Variant{}, false
}

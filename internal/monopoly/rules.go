package monopoly

// Rules holds the tunable constants of a game.
type Rules struct {
	StartingCash            int
	GoBonus                 int
	Bail                    int
	MaxJailTurns            int
	MaxDoubles              int
	MortgageInterestPercent int
	MinPlayers              int
	MaxPlayers              int
}

func DefaultRules() Rules {
	return Rules{
		StartingCash:            1500,
		GoBonus:                 200,
		Bail:                    50,
		MaxJailTurns:            3,
		MaxDoubles:              3,
		MortgageInterestPercent: 10,
		MinPlayers:              2,
		MaxPlayers:              8,
	}
}

// unmortgageCost is the mortgage value plus interest.
func (that Rules) unmortgageCost(mortgage int) int {
	return mortgage + mortgage*that.MortgageInterestPercent/100
}

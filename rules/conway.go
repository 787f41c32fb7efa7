package rules

import "github.com/sheikhrachel/torus-life/model"

/*
Apply determines the next state of a cell from its live neighbor count.

	2 neighbors: the cell keeps its previous state
	3 neighbors: the cell is alive
	otherwise:   the cell is empty
*/
func Apply(neighbors int, prev model.State) model.State {
	switch neighbors {
	case 2:
		return prev
	case 3:
		return model.Alive
	default:
		return model.Empty
	}
}

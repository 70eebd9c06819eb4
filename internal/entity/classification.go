package entity

// Classification - verdict of the external classifier on a fully resolved board.
type Classification struct {
	IsUnknot     bool   `json:"is_unknot"`
	Reason       string `json:"reason"`
	NumCrossings int    `json:"num_crossings"`
}

// Winner - the Unknotter wins iff the final diagram is the unknot.
func Winner(classification Classification) Player {
	if classification.IsUnknot {
		return Unknotter
	}
	return Knotter
}

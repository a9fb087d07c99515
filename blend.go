package dlist

// BlendMode selects how source pixels combine with the destination.
// Only the Porter-Duff subset the deferred pipeline emits is listed.
type BlendMode uint8

const (
	BlendSrcOver BlendMode = iota
	BlendSrc
	BlendClear
	BlendDstOver
	BlendDstIn
)

var blendModeNames = [...]string{
	BlendSrcOver: "SrcOver",
	BlendSrc:     "Src",
	BlendClear:   "Clear",
	BlendDstOver: "DstOver",
	BlendDstIn:   "DstIn",
}

func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "Unknown"
}

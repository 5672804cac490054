package source

// Kind is the container format of a corpus root.
type Kind int

const (
	KindDirectory Kind = iota + 1
	KindTar
	KindZip
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindTar:
		return "tar"
	case KindZip:
		return "zip"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

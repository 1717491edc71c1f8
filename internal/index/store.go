package index

// Store persists built index snapshots keyed by channel name. Save replaces
// any previous snapshot for the channel as a whole; a reader loading during
// a save sees either the old complete snapshot or the new one. Load returns
// domain.ErrIndexNotFound when the channel has never been built.
type Store interface {
	Save(ix *Index) error
	Load(channel string) (*Index, error)
}

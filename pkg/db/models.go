package db

// WordEntry is one persisted word with its occurrence count.
type WordEntry struct {
	Word      string
	Frequency int
}

// MetaEntry is one key/value pair from the meta table, in seeding order.
type MetaEntry struct {
	Key   string
	Value string
}

// Info summarizes a dictionary database for the info command.
type Info struct {
	Path  string
	Words int
	Meta  []MetaEntry
}

package transcripts

// Transcript is one earnings-call record as returned by the dataset provider.
type Transcript struct {
	Company string
	Ticker  string
	Quarter int
	Year    int
	Date    string
	Content string
}

type Source interface {
	// FetchPage returns one page of transcripts plus the total row count.
	FetchPage(offset, length int) ([]Transcript, int, error)
	Name() string
}

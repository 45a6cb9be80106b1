package mail

type ImportSummaryData struct {
	Filename string
	Inserted int
	Updated  int
	Skipped  int
	Rejected int
}

func (d ImportSummaryData) Total() int {
	return d.Inserted + d.Updated + d.Skipped + d.Rejected
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

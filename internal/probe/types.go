package probe

// metadataJSON mirrors the fields of the extractor's --dump-json output that
// the pipeline cares about.
type metadataJSON struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Duration float64      `json:"duration"`
	Formats  []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	VideoCodec string  `json:"vcodec"`
	AudioCodec string  `json:"acodec"`
	TBR        float64 `json:"tbr"`
	Filesize   int64   `json:"filesize"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// searchEntryJSON mirrors one --flat-playlist entry of a search result.
type searchEntryJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

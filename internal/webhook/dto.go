package webhook

// Meta webhook payload shapes, trimmed to the fields the pipeline consumes.
// Everything else Meta sends is ignored.

type metaPayload struct {
	Entry []metaEntry `json:"entry"`
}

type metaEntry struct {
	Changes []metaChange `json:"changes"`
}

type metaChange struct {
	Value metaValue `json:"value"`
}

type metaValue struct {
	Contacts []metaContact `json:"contacts"`
	Messages []metaMessage `json:"messages"`
}

type metaContact struct {
	WaID string `json:"wa_id"`
}

type metaMessage struct {
	Type string   `json:"type"`
	Text metaText `json:"text"`
}

type metaText struct {
	Body string `json:"body"`
}

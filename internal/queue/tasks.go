package queue

const (
	TypeIndexRebuild = "index:rebuild"
)

type IndexRebuildPayload struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

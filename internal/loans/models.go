package loans

// File is an uploaded document or recording. The bytes stay in memory for
// the life of the session and are never written to the session store.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Info strips the payload for responses
func (f *File) Info() *FileInfo {
	if f == nil {
		return nil
	}
	return &FileInfo{Name: f.Name, ContentType: f.ContentType, Size: f.Size}
}

type FileInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Application is the record the wizard fills in. Documents always holds
// exactly the keys in DocumentTypes; a nil value means not uploaded yet.
type Application struct {
	Type          LoanType               `json:"type,omitempty"`
	Status        Status                 `json:"status"`
	Documents     map[DocumentType]*File `json:"documents"`
	VideoResponse *File                  `json:"video_response,omitempty"`
}

func NewApplication() Application {
	docs := make(map[DocumentType]*File, len(DocumentTypes))
	for _, dt := range DocumentTypes {
		docs[dt] = nil
	}
	return Application{
		Status:    StatusPending,
		Documents: docs,
	}
}

// clone copies the documents map so callers cannot mutate wizard state
func (a Application) clone() Application {
	out := a
	out.Documents = make(map[DocumentType]*File, len(DocumentTypes))
	for _, dt := range DocumentTypes {
		out.Documents[dt] = a.Documents[dt]
	}
	return out
}

// normalize restores the fixed document key set, dropping unknown keys
func (a *Application) normalize() {
	docs := make(map[DocumentType]*File, len(DocumentTypes))
	for _, dt := range DocumentTypes {
		docs[dt] = a.Documents[dt]
	}
	a.Documents = docs
	if !a.Status.IsValid() {
		a.Status = StatusPending
	}
}

// UploadedCount reports how many required documents are present
func (a Application) UploadedCount() int {
	n := 0
	for _, dt := range DocumentTypes {
		if a.Documents[dt] != nil {
			n++
		}
	}
	return n
}

package tracker

// Space is a top-level container inside a workspace.
type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Folder groups lists inside a space.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is the container tasks are created under.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a tracker-side task.
type Task struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []TagRef `json:"tags,omitempty"`
}

// TagRef is how the tracker represents a tag on a task.
type TagRef struct {
	Name string `json:"name"`
}

// TagNames flattens task tags to plain strings.
func (t *Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// TaskDraft is the create/update payload for a task.
type TaskDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

type spacesResponse struct {
	Spaces []Space `json:"spaces"`
}

type foldersResponse struct {
	Folders []Folder `json:"folders"`
}

type listsResponse struct {
	Lists []List `json:"lists"`
}

type createNameRequest struct {
	Name string `json:"name"`
}

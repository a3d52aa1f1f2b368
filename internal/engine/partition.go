package engine

import "regexp"

// unassignedJobID is the bucket for filenames that don't carry a leading
// job-number prefix.
const unassignedJobID = "unknown"

var jobPrefixPattern = regexp.MustCompile(`^(\d+)[_^]`)

// Partition groups files into jobs by the leading numeric prefix of their
// original filename. Files sharing a prefix become one
// job; files with no recognizable prefix are grouped under the "unknown"
// sentinel job. Within each job, upload order is preserved.
func Partition(files []FileUpload) map[string][]FileUpload {
	jobs := make(map[string][]FileUpload)
	for _, f := range files {
		jobID := unassignedJobID
		if m := jobPrefixPattern.FindStringSubmatch(f.OriginalFilename); m != nil {
			jobID = m[1]
		}
		jobs[jobID] = append(jobs[jobID], f)
	}
	return jobs
}

// OrderedJobIDs returns job IDs in the order each was first encountered in
// files, so callers can process and report jobs deterministically rather
// than in Go's randomized map order.
func OrderedJobIDs(files []FileUpload) []string {
	seen := make(map[string]bool)
	var order []string
	for _, f := range files {
		jobID := unassignedJobID
		if m := jobPrefixPattern.FindStringSubmatch(f.OriginalFilename); m != nil {
			jobID = m[1]
		}
		if !seen[jobID] {
			seen[jobID] = true
			order = append(order, jobID)
		}
	}
	return order
}

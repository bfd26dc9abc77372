package main

// seedRepos pre-populates the mock with a small documentation tree so the
// shelf server has something to list, fetch and archive out of the box.
func seedRepos(s *store) {
	seed := map[string]string{
		"docs/readme.md":        "# Demo repository\n\nSeeded by mock-github.\n",
		"docs/guides/setup.md":  "1. Point GITHUB_BASE_URL at this server.\n2. Start shelf-server.\n",
		"docs/guides/usage.md":  "POST /files uploads, GET /files/archive bundles.\n",
		"assets/logo.svg":       "<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>",
		"notes/todo.txt":        "replace the demo seed data\n",
		"notes/archive/old.txt": "kept for the recursive-walk demo\n",
	}

	const repoKey = "acme/fixtures"
	s.repos[repoKey] = make(map[string][]byte, len(seed))
	for path, content := range seed {
		s.repos[repoKey][path] = []byte(content)
	}
}

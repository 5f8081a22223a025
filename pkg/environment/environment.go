// Package environment maps a working directory to the project it belongs to.
package environment

import (
	"context"
	"sync"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/git"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/util/pathutil"
	"github.com/sirupsen/logrus"
)

// Environment is the result of recognition. Project is nil when the
// directory belongs to no project.
type Environment struct {
	Project *project.Project
	// Matching holds every record whose path equals the directory.
	Matching []*project.Project
	// ExactName is "base#branch" for version-controlled projects.
	ExactName string
	// Branch is the live branch, when known.
	Branch string
}

// IsProject reports whether a project was recognized.
func (e *Environment) IsProject() bool {
	return e != nil && e.Project != nil
}

// Recognizer resolves directories against the stored projects. Build one per
// process and share it.
type Recognizer struct {
	store    config.Store
	branches git.BranchProvider
	logger   *logrus.Entry

	mu       sync.Mutex
	snapshot []*project.Project
	loaded   bool
}

// NewRecognizer returns a recognizer reading projects from store.
func NewRecognizer(store config.Store, branches git.BranchProvider, logger *logrus.Entry) *Recognizer {
	if branches == nil {
		branches = git.NewCLIRepository()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Recognizer{store: store, branches: branches, logger: logger}
}

// Projects returns the cached project snapshot, loading it on first use or
// when refresh is set. The snapshot is replaced whole, never patched.
func (r *Recognizer) Projects(refresh bool) ([]*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded && !refresh {
		return r.snapshot, nil
	}
	all, err := project.LoadAll(r.store)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		canon, err := pathutil.Canonicalize(p.Path)
		if err == nil {
			p.Path = canon
		}
	}
	r.snapshot = all
	r.loaded = true
	return all, nil
}

// Recognize resolves dir. A directory matching no project yields the
// neutral environment and no error. A failing branch query for a matched,
// version-controlled project is a RECOGNITION_FAILED error.
func (r *Recognizer) Recognize(ctx context.Context, dir string) (*Environment, error) {
	canon, err := pathutil.Canonicalize(dir)
	if err != nil {
		return nil, errors.RecognitionFailed(dir, err)
	}
	r.logger.WithField("dir", canon).Debug("Recognizing directory")

	all, err := r.Projects(false)
	if err != nil {
		return nil, err
	}

	var matching []*project.Project
	for _, p := range all {
		if p.Path == canon {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		r.logger.Debug("No project matches directory")
		return &Environment{}, nil
	}
	r.logger.WithField("count", len(matching)).Debug("Found matching projects")

	anchor := anchorOf(matching)
	env := &Environment{Project: anchor, Matching: matching}

	if !git.HasGitDir(anchor.Path) {
		return env, nil
	}

	branch, err := r.branches.CurrentBranch(ctx, anchor.Path)
	if err != nil {
		return nil, errors.RecognitionFailed(anchor.Path, err).WithDetail("project", anchor.Name)
	}
	env.Branch = branch
	env.ExactName = project.QualifiedName(anchor.BaseName(), branch)

	for _, p := range all {
		if p.Name == env.ExactName {
			r.logger.WithField("project", p.Name).Debug("Preferring branch project")
			env.Project = p
			return env, nil
		}
	}

	annotated := anchor.Clone()
	annotated.Branch = branch
	env.Project = annotated
	return env, nil
}

// anchorOf picks the unqualified project among matches. When only branch
// records match, the first one anchors.
func anchorOf(matching []*project.Project) *project.Project {
	for _, p := range matching {
		if !p.IsBranchQualified() {
			return p
		}
	}
	return matching[0]
}

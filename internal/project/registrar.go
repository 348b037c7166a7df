package project

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"jsweave/internal/loader"
)

// AnonymousSuffix дописывается к счётчику для юнитов без имени: "0_anonymous.js".
const AnonymousSuffix = "_anonymous.js"

type Kind = loader.Kind

const (
	KindScript = loader.KindScript
	KindModule = loader.KindModule
)

// SourceUnit - один зарегистрированный фрагмент. После AddFile не меняется.
type SourceUnit struct {
	Content string
	Name    string
	Kind    Kind
}

var (
	// ErrDuplicateName matches *DuplicateNameError.
	ErrDuplicateName = errors.New("name already in use")
)

type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name already in use: '%s'", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// registrar хранит юниты в порядке регистрации и следит за уникальностью имён.
type registrar struct {
	mu    sync.Mutex
	units []SourceUnit
	names map[string]struct{}
	anon  int
}

func (r *registrar) add(content, name string, kind Kind) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	if name == "" {
		name = r.nextAnonymous()
	} else if _, taken := r.names[name]; taken {
		return "", &DuplicateNameError{Name: name}
	}
	r.names[name] = struct{}{}
	r.units = append(r.units, SourceUnit{Content: content, Name: name, Kind: kind})
	return name, nil
}

// nextAnonymous перебирает счётчик, пока не найдётся свободное имя:
// имя, занятое вызывающим, просто пропускается.
func (r *registrar) nextAnonymous() string {
	for {
		name := fmt.Sprintf("%d%s", r.anon, AnonymousSuffix)
		r.anon++
		if _, taken := r.names[name]; !taken {
			return name
		}
	}
}

func (r *registrar) snapshot() []SourceUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.units)
}

func (r *registrar) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}

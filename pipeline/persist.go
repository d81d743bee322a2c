// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base/log"
	"github.com/gorse-io/tabular/dataset"
	"github.com/gorse-io/tabular/model"
	"github.com/gorse-io/tabular/transform"
)

const (
	magic         = "TBPL"
	formatVersion = byte(1)

	estimatorLogistic = byte('l')
	estimatorForest   = byte('f')
)

// Marshal writes the fully-fit pipeline into a byte stream. The stream holds
// every learned parameter needed to reproduce predictions without refitting.
func (p *Pipeline) Marshal(w io.Writer) error {
	if !p.fitted {
		return errors.Trace(ErrNotFitted)
	}
	if _, err := w.Write([]byte(magic)); err != nil {
		return errors.Trace(err)
	}
	var kind byte
	switch p.Estimator.(type) {
	case *model.LogisticRegression:
		kind = estimatorLogistic
	case *model.RandomForest:
		kind = estimatorForest
	default:
		return errors.NotSupportedf("estimator type %T", p.Estimator)
	}
	if _, err := w.Write([]byte{formatVersion, kind}); err != nil {
		return errors.Trace(err)
	}
	if err := p.Labels.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	if err := p.Router.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(p.Estimator.Marshal(w))
}

// Unmarshal reads a fitted pipeline from a byte stream. The result is
// behaviorally identical to the pipeline that was marshaled.
func (p *Pipeline) Unmarshal(r io.Reader) error {
	header := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, header); err != nil {
		return errors.Trace(err)
	}
	if !bytes.Equal(header[:len(magic)], []byte(magic)) {
		return errors.NotValidf("artifact header")
	}
	if header[len(magic)] != formatVersion {
		return errors.NotSupportedf("artifact format version %d", header[len(magic)])
	}
	switch header[len(magic)+1] {
	case estimatorLogistic:
		p.Estimator = &model.LogisticRegression{}
	case estimatorForest:
		p.Estimator = &model.RandomForest{}
	default:
		return errors.NotSupportedf("estimator type %c", header[len(magic)+1])
	}
	p.Labels = dataset.NewDict()
	if err := p.Labels.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	p.Router = &transform.ColumnRouter{}
	if err := p.Router.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	if err := p.Estimator.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	p.fitted = true
	return nil
}

// Save writes the fitted pipeline to a single artifact file.
func (p *Pipeline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if err = p.Marshal(file); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("save pipeline", zap.String("path", path))
	return nil
}

// Load reads a fitted pipeline from an artifact file.
func Load(path string) (*Pipeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	var p Pipeline
	if err = p.Unmarshal(file); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load pipeline", zap.String("path", path))
	return &p, nil
}

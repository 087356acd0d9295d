package hdf5

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads the rows of a two-dimensional dataset
// written by Run, i.e. the per-step records of one Dataset.
type Loader struct {
	i uint // index of current row
	n uint // total number of rows
	w uint // number of values per row

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
func NewLoader(filepath, dataset string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("loader: %s: expected 2 dimensions, got %d", dataset, len(dims))
	}
	l.n, l.w = dims[0], dims[1]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, l.mspace)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	return l, nil
}

// Rows returns the number of rows, i.e. of recorded steps.
func (l *Loader) Rows() int { return int(l.n) }

// Width returns the number of values per row.
func (l *Loader) Width() int { return int(l.w) }

// Load reads the next row into dst, a pointer to a slice of Width values
// of the recorded type, and cycles when every row has been loaded.
func (l *Loader) Load(dst interface{}) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n
	return l.dset.ReadSubset(dst, l.mspace, l.fspace)
}

// Close releases the dataset and closes the file.
func (l *Loader) Close() (err error) {
	defer checkClose(&err, l.file)
	defer checkClose(&err, l.dset)
	defer checkClose(&err, l.fspace)
	return l.mspace.Close()
}

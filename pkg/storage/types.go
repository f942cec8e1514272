package storage

import (
	"fmt"
	"path"
	"time"
)

// DiskStorage keeps the files of one dashboard under RootFolder/Dashboard.
type DiskStorage struct {
	Dashboard  string
	RootFolder string
}

func NewDiskStorage(dashboard, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Dashboard:  dashboard,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Dashboard, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

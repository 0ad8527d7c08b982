package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"VARHIVE_DEBUG"`
	Api   struct {
		Port                               string `yaml:"port" envconfig:"VARHIVE_API_INTERNAL_PORT"`
		Url                                string `yaml:"url" envconfig:"VARHIVE_API_URL"`
		AnnotationPath                     string `yaml:"annotationpath" envconfig:"VARHIVE_API_ANNOTATION_PATH"`
		BatchDirectory                     string `yaml:"batchdirectory" envconfig:"VARHIVE_API_BATCH_DIRECTORY"`
		BatchSize                          int    `yaml:"batchsize" envconfig:"VARHIVE_API_BATCH_SIZE" default:"2500"`
		BulkIndexingCap                    int    `yaml:"bulkindexingcap" envconfig:"VARHIVE_API_BULK_INDEXING_CAP" default:"5000"`
		FileProcessingConcurrencyLevel     int    `yaml:"fileprocessingconcurrencylevel" envconfig:"VARHIVE_API_FILE_PROC_CONCURRENCY" default:"2"`
		PositionProcessingConcurrencyLevel int    `yaml:"positionprocessingconcurrencylevel" envconfig:"VARHIVE_API_POSITION_PROC_CONCURRENCY" default:"8"`
	} `yaml:"api"`
	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"VARHIVE_ES_URL"`
		Username string `yaml:"username" envconfig:"VARHIVE_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"VARHIVE_ES_PASSWORD"`
		Index    string `yaml:"index" envconfig:"VARHIVE_ES_INDEX" default:"variants"`
	} `yaml:"elasticsearch"`
}

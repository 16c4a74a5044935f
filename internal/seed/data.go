package seed

import (
	"time"

	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

var feeds = []models.Feed{
	{
		ID:         6,
		Title:      "Riset: Model bahasa kecil kini menyaingi model besar",
		Category:   models.CategoryResearch,
		CreatedAt:  day(2025, time.March, 14, 9),
		Popularity: 412,
		Image:      "/images/feeds/slm-benchmark.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Apa temuan utama riset ini?"},
			{Role: "answer", Text: "Model di bawah 8 miliar parameter mencapai skor setara pada tugas penalaran dasar."},
			{Role: "question", Text: "Apa syaratnya?"},
			{Role: "answer", Text: "Data latih yang dikurasi dengan ketat dan distilasi dari model yang lebih besar."},
		},
		Takeaway: "Kualitas data mengalahkan ukuran model untuk banyak kasus praktis.",
		Source:   &models.Source{Title: "arXiv", URL: "https://arxiv.org"},
		StoryID:  models.IDPtr(3),
	},
	{
		ID:         5,
		Title:      "Tutorial: Membuat REST API pertama dengan Go",
		Category:   models.CategoryTutorial,
		CreatedAt:  day(2025, time.March, 12, 14),
		Popularity: 980,
		Image:      "/images/feeds/go-rest-api.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Paket apa yang dibutuhkan?"},
			{Role: "answer", Text: "Cukup net/http untuk mulai, lalu router seperti gin saat rute bertambah."},
			{Role: "question", Text: "Bagaimana menguji handler?"},
			{Role: "answer", Text: "Gunakan httptest.NewRecorder dan panggil handler secara langsung.", Image: "/images/feeds/go-httptest.png"},
		},
		Takeaway: "Mulai kecil, uji setiap handler, tambah dependensi seperlunya.",
		StoryID:  models.IDPtr(2),
	},
	{
		ID:         4,
		Title:      "Pemerintah umumkan program literasi digital nasional",
		Category:   models.CategoryNews,
		CreatedAt:  day(2025, time.March, 10, 8),
		Popularity: 1530,
		Image:      "/images/feeds/literasi-digital.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Siapa sasaran program ini?"},
			{Role: "answer", Text: "Pelajar SMA dan guru di 120 kabupaten pada tahap pertama."},
		},
		Takeaway: "Program berjalan bertahap mulai semester depan.",
		Source:   &models.Source{Title: "Kominfo", URL: "https://www.komdigi.go.id"},
		StoryID:  models.IDPtr(1),
	},
	{
		ID:         3,
		Title:      "Tutorial: Memahami goroutine dan channel",
		Category:   models.CategoryTutorial,
		CreatedAt:  day(2025, time.March, 8, 16),
		Popularity: 760,
		Image:      "/images/feeds/goroutine.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Apa beda goroutine dengan thread?"},
			{Role: "answer", Text: "Goroutine dijadwalkan oleh runtime Go dan jauh lebih ringan dari thread OS."},
			{Role: "question", Text: "Kapan memakai channel?"},
			{Role: "answer", Text: "Saat data perlu berpindah kepemilikan antar goroutine."},
		},
		Takeaway: "Bagikan memori dengan berkomunikasi, bukan sebaliknya.",
		StoryID:  models.IDPtr(2),
	},
	{
		ID:         2,
		Title:      "Startup lokal raih pendanaan seri A untuk platform edukasi",
		Category:   models.CategoryNews,
		CreatedAt:  day(2025, time.March, 5, 11),
		Popularity: 640,
		Image:      "/images/feeds/startup-edukasi.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Berapa nilai pendanaannya?"},
			{Role: "answer", Text: "Sekitar 15 juta dolar AS dari gabungan investor regional."},
		},
		Takeaway: "Investor masih melirik sektor edukasi berbasis teknologi.",
	},
	{
		ID:         1,
		Title:      "Riset: Kebiasaan membaca daring generasi Z",
		Category:   models.CategoryResearch,
		CreatedAt:  day(2025, time.March, 1, 10),
		Popularity: 288,
		Image:      "/images/feeds/gen-z-membaca.jpg",
		Lines: []models.Line{
			{Role: "question", Text: "Format apa yang paling disukai?"},
			{Role: "answer", Text: "Konten pendek berbentuk tanya jawab dengan ringkasan di akhir."},
		},
		Takeaway: "Format percakapan meningkatkan waktu baca hingga dua kali lipat.",
		StoryID:  models.IDPtr(3),
	},
}

var stories = []models.Story{
	{ID: 1, Name: "Literasi Digital", Label: "Sorotan", Type: models.CategoryNews, Palette: "sky", Viral: true},
	{ID: 2, Name: "Belajar Go", Label: "Seri", Type: models.CategoryTutorial, Palette: "emerald", Cover: "/images/stories/belajar-go.jpg"},
	{ID: 3, Name: "AI & Pembaca", Label: "Laporan", Type: models.CategoryResearch, Palette: "violet"},
	{ID: 4, Name: "Ekonomi Kreatif", Label: "Segera", Type: models.CategoryNews, Palette: "amber"},
}

var books = []models.Book{
	{
		ID:          1,
		Title:       "Go dari Nol",
		Author:      "Nardi",
		Cover:       "/images/books/go-dari-nol.jpg",
		Genre:       "Pemrograman",
		Pages:       184,
		Rating:      4.7,
		Description: "Belajar Go lewat percakapan singkat, dari variabel sampai concurrency.",
		Chapters: []models.Chapter{
			{
				Title: "Kenapa Go?",
				Lines: []models.Line{
					{Role: "question", Text: "Kenapa memilih Go untuk backend?"},
					{Role: "answer", Text: "Kompilasi cepat, biner tunggal, dan concurrency bawaan."},
				},
			},
			{
				Title: "Struct dan Interface",
				Lines: []models.Line{
					{Role: "question", Text: "Apakah Go punya class?"},
					{Role: "answer", Text: "Tidak. Go memakai struct dan interface yang dipenuhi secara implisit."},
				},
			},
		},
		StoryID: models.IDPtr(2),
	},
	{
		ID:          2,
		Title:       "Membaca di Era Algoritma",
		Author:      "Tim Riset naanews",
		Cover:       "/images/books/era-algoritma.jpg",
		Genre:       "Nonfiksi",
		Pages:       212,
		Rating:      4.3,
		Description: "Bagaimana rekomendasi otomatis mengubah cara kita memilih bacaan.",
		Chapters: []models.Chapter{
			{
				Title: "Mesin Rekomendasi",
				Lines: []models.Line{
					{Role: "question", Text: "Bagaimana sistem memilih artikel untuk saya?"},
					{Role: "answer", Text: "Dari riwayat baca, kemiripan topik, dan popularitas."},
				},
			},
		},
		StoryID: models.IDPtr(3),
	},
	{
		ID:          3,
		Title:       "Catatan Ekonomi Kreatif",
		Author:      "Redaksi",
		Cover:       "/images/books/ekonomi-kreatif.jpg",
		Genre:       "Bisnis",
		Pages:       156,
		Rating:      4.0,
		Description: "Wawancara dengan pelaku usaha kreatif dari berbagai daerah.",
		Chapters: []models.Chapter{
			{
				Title: "Memulai dari Hobi",
				Lines: []models.Line{
					{Role: "question", Text: "Kapan hobi layak dijadikan usaha?"},
					{Role: "answer", Text: "Saat ada orang lain yang bersedia membayar secara rutin."},
				},
			},
		},
		StoryID: models.IDPtr(4),
	},
}

var products = []models.Product{
	{
		Slug:        "buku-go-dari-nol",
		Name:        "Buku Cetak Go dari Nol",
		Description: "Edisi cetak dengan latihan di setiap bab.",
		Price:       12500000,
		Currency:    "IDR",
		Image:       "/images/products/buku-go.jpg",
		Category:    "buku",
		Stock:       40,
		Featured:    true,
	},
	{
		Slug:        "kaos-gopher",
		Name:        "Kaos Gopher naanews",
		Description: "Kaos katun dengan ilustrasi gopher.",
		Price:       9900000,
		Currency:    "IDR",
		Image:       "/images/products/kaos-gopher.jpg",
		Category:    "merchandise",
		Stock:       120,
	},
	{
		Slug:        "kelas-backend-go",
		Name:        "Kelas Daring Backend Go",
		Description: "Delapan sesi langsung membangun layanan REST.",
		Price:       45000000,
		Currency:    "IDR",
		Image:       "/images/products/kelas-backend.jpg",
		Category:    "kelas",
		Stock:       25,
		Featured:    true,
	},
	{
		Slug:        "mug-naanews",
		Name:        "Mug naanews",
		Description: "Mug keramik 350 ml.",
		Price:       6500000,
		Currency:    "IDR",
		Image:       "/images/products/mug.jpg",
		Category:    "merchandise",
		Stock:       60,
	},
}

var categories = []models.ProductCategory{
	{Slug: "buku", Name: "Buku", Description: "Buku cetak dan digital.", Icon: "book"},
	{Slug: "kelas", Name: "Kelas", Description: "Kelas daring dan lokakarya.", Icon: "graduation-cap"},
	{Slug: "merchandise", Name: "Merchandise", Description: "Kaos, mug, dan stiker.", Icon: "shirt"},
}

var roadmaps = []models.Roadmap{
	{
		Slug:        "backend-go",
		Title:       "Backend dengan Go",
		Description: "Dari dasar bahasa sampai layanan produksi.",
		Level:       "pemula",
		Steps: []models.RoadmapStep{
			{Title: "Dasar bahasa", Description: "Tipe, fungsi, struct, interface.", Resources: []string{"https://go.dev/tour"}},
			{Title: "HTTP dan JSON", Description: "net/http, routing, encoding/json.", Resources: []string{"https://gobyexample.com"}},
			{Title: "Database", Description: "database/sql, migrasi, transaksi.", Resources: []string{}},
		},
	},
	{
		Slug:        "data-jurnalisme",
		Title:       "Jurnalisme Data",
		Description: "Mengolah data publik menjadi cerita.",
		Level:       "menengah",
		Steps: []models.RoadmapStep{
			{Title: "Mencari data", Description: "Portal data terbuka dan permintaan informasi.", Resources: []string{"https://data.go.id"}},
			{Title: "Membersihkan data", Description: "Spreadsheet dan skrip sederhana.", Resources: []string{}},
			{Title: "Visualisasi", Description: "Memilih grafik yang jujur.", Resources: []string{}},
		},
	},
}
